package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/cocomeza/quiro-agendaweb-sub000/internal/crypto"
	"github.com/cocomeza/quiro-agendaweb-sub000/internal/repo"
)

type pacienteRequest struct {
	Nombre          string  `json:"nombre"`
	Apellido        string  `json:"apellido"`
	Telefono        *string `json:"telefono"`
	Email           *string `json:"email"`
	DNI             *string `json:"dni"`
	FechaNacimiento *string `json:"fecha_nacimiento"`
	Direccion       *string `json:"direccion"`
	Notas           *string `json:"notas"`
	NumeroFicha     *string `json:"numero_ficha"`
}

type pacienteResponse struct {
	ID              string          `json:"id"`
	Nombre          string          `json:"nombre"`
	Apellido        string          `json:"apellido"`
	Telefono        *string         `json:"telefono"`
	Email           *string         `json:"email"`
	DNI             *string         `json:"dni"`
	FechaNacimiento *string         `json:"fecha_nacimiento"`
	Direccion       *string         `json:"direccion"`
	Notas           *string         `json:"notas"`
	NumeroFicha     *string         `json:"numero_ficha"`
	Antecedentes    json.RawMessage `json:"antecedentes,omitempty"`
}

// validate checks the form fields before any store call: required names,
// and format of the optional fields when present.
func (p *pacienteRequest) validate() error {
	p.Nombre = strings.TrimSpace(p.Nombre)
	p.Apellido = strings.TrimSpace(p.Apellido)
	if p.Nombre == "" || p.Apellido == "" {
		return ErrNombreRequerido
	}
	if p.Email != nil && strings.TrimSpace(*p.Email) != "" {
		if err := ValidateEmail(*p.Email); err != nil {
			return err
		}
	}
	if p.Telefono != nil && strings.TrimSpace(*p.Telefono) != "" {
		if err := ValidateTelefono(*p.Telefono); err != nil {
			return err
		}
	}
	if p.FechaNacimiento != nil && strings.TrimSpace(*p.FechaNacimiento) != "" {
		if _, err := ParseFecha(*p.FechaNacimiento); err != nil {
			return err
		}
	}
	if p.DNI != nil && strings.TrimSpace(*p.DNI) != "" {
		if !crypto.ValidDNI(crypto.NormalizeDNI(*p.DNI)) {
			return errors.New("dni inválido")
		}
	}
	return nil
}

func (h *Handler) toResponse(p *repo.Paciente) pacienteResponse {
	out := pacienteResponse{
		ID:              p.ID.String(),
		Nombre:          p.Nombre,
		Apellido:        p.Apellido,
		Telefono:        p.Telefono,
		Email:           p.Email,
		FechaNacimiento: p.FechaNacimiento,
		Direccion:       p.Direccion,
		Notas:           p.Notas,
		NumeroFicha:     p.NumeroFicha,
		Antecedentes:    p.Antecedentes,
	}
	out.DNI = h.decryptDNI(p)
	return out
}

func (h *Handler) decryptDNI(p *repo.Paciente) *string {
	if p.DNIKeyVersion == nil || len(p.DNIEncrypted) == 0 || len(p.DNINonce) == 0 {
		return nil
	}
	keys, err := crypto.ParseKeysEnv(h.Cfg.DataEncryptionKeys)
	if err != nil {
		return nil
	}
	plain, err := crypto.Decrypt(p.DNIEncrypted, p.DNINonce, *p.DNIKeyVersion, keys)
	if err != nil {
		log.Printf("[pacientes] descifrado de dni falló para %s: %v", p.ID, err)
		return nil
	}
	s := string(plain)
	return &s
}

// prepararDNI encrypts the DNI into the record's at-rest columns, before any
// store write, so a broken key ring fails the request instead of producing a
// paciente sin documento. An empty normalized value leaves the columns nil.
func (h *Handler) prepararDNI(p *repo.Paciente, dni string) error {
	normalized := crypto.NormalizeDNI(dni)
	if normalized == "" {
		return nil
	}
	keys, err := crypto.ParseKeysEnv(h.Cfg.DataEncryptionKeys)
	if err != nil {
		return err
	}
	enc, nonce, err := crypto.Encrypt([]byte(normalized), h.Cfg.CurrentDataKeyVer, keys)
	if err != nil {
		return err
	}
	ver := h.Cfg.CurrentDataKeyVer
	hash := crypto.DNIHash(normalized)
	p.DNIEncrypted, p.DNINonce = enc, nonce
	p.DNIKeyVersion, p.DNIHash = &ver, &hash
	return nil
}

func (h *Handler) ListPacientes(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r)
	total, err := repo.PacientesCount(r.Context(), h.Pool)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	list, err := repo.PacientesPaginated(r.Context(), h.Pool, limit, offset)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	out := make([]pacienteResponse, len(list))
	for i := range list {
		out[i] = h.toResponse(&list[i])
		out[i].Antecedentes = nil // listado liviano, la ficha se pide aparte
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pacientes": out,
		"limit":     limit,
		"offset":    offset,
		"total":     total,
	})
}

func (h *Handler) GetPaciente(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["pacienteId"])
	if err != nil {
		http.Error(w, `{"error":"paciente_id inválido"}`, http.StatusBadRequest)
		return
	}
	p, err := repo.PacienteByID(r.Context(), h.Pool, id)
	if err != nil {
		http.Error(w, `{"error":"paciente no encontrado"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(p))
}

func (h *Handler) CreatePaciente(w http.ResponseWriter, r *http.Request) {
	var req pacienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"cuerpo inválido"}`, http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p := &repo.Paciente{
		Nombre:          req.Nombre,
		Apellido:        req.Apellido,
		Telefono:        req.Telefono,
		Email:           req.Email,
		FechaNacimiento: req.FechaNacimiento,
		Direccion:       req.Direccion,
		Notas:           req.Notas,
		NumeroFicha:     req.NumeroFicha,
	}
	// Cifrado antes del insert: el alta es un solo INSERT con el dni adentro.
	if req.DNI != nil {
		if err := h.prepararDNI(p, *req.DNI); err != nil {
			log.Printf("[pacientes] cifrar dni: %v", err)
			http.Error(w, `{"error":"no se pudo guardar el dni; reintentá la operación"}`, http.StatusInternalServerError)
			return
		}
	}
	id, err := repo.CreatePaciente(r.Context(), h.Pool, p)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.invalidateAgenda()
	created, err := repo.PacienteByID(r.Context(), h.Pool, id)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, h.toResponse(created))
}

// UpdatePaciente overwrites every editable field (the form submits the whole
// record, not a patch).
func (h *Handler) UpdatePaciente(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["pacienteId"])
	if err != nil {
		http.Error(w, `{"error":"paciente_id inválido"}`, http.StatusBadRequest)
		return
	}
	var req pacienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"cuerpo inválido"}`, http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p := &repo.Paciente{
		Nombre:          req.Nombre,
		Apellido:        req.Apellido,
		Telefono:        req.Telefono,
		Email:           req.Email,
		FechaNacimiento: req.FechaNacimiento,
		Direccion:       req.Direccion,
		Notas:           req.Notas,
		NumeroFicha:     req.NumeroFicha,
	}

	// El cifrado se resuelve antes de escribir nada: una clave mal
	// configurada corta acá y no deja un paciente a medio guardar.
	// dni nil = campo sin tocar; vacío = borrar; valor = re-cifrar.
	var guardarDNI func() error
	if req.DNI != nil {
		if normalized := crypto.NormalizeDNI(*req.DNI); normalized == "" {
			guardarDNI = func() error { return repo.ClearPacienteDNI(r.Context(), h.Pool, id) }
		} else {
			tmp := &repo.Paciente{}
			if err := h.prepararDNI(tmp, *req.DNI); err != nil {
				log.Printf("[pacientes] cifrar dni: %v", err)
				http.Error(w, `{"error":"no se pudo guardar el dni; reintentá la operación"}`, http.StatusInternalServerError)
				return
			}
			guardarDNI = func() error {
				return repo.SetPacienteDNI(r.Context(), h.Pool, id, tmp.DNIEncrypted, tmp.DNINonce, *tmp.DNIKeyVersion, *tmp.DNIHash)
			}
		}
	}

	if err := repo.UpdatePaciente(r.Context(), h.Pool, id, p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, `{"error":"paciente no encontrado"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	if guardarDNI != nil {
		if err := guardarDNI(); err != nil {
			// El PUT es idempotente: reintentarlo completa el dni pendiente.
			log.Printf("[pacientes] guardar dni: %v", err)
			http.Error(w, `{"error":"no se pudo guardar el dni; reintentá la operación"}`, http.StatusInternalServerError)
			return
		}
	}
	h.invalidateAgenda()
	updated, err := repo.PacienteByID(r.Context(), h.Pool, id)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(updated))
}

// GetAntecedentes returns only the medical-record payload.
func (h *Handler) GetAntecedentes(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["pacienteId"])
	if err != nil {
		http.Error(w, `{"error":"paciente_id inválido"}`, http.StatusBadRequest)
		return
	}
	p, err := repo.PacienteByID(r.Context(), h.Pool, id)
	if err != nil {
		http.Error(w, `{"error":"paciente no encontrado"}`, http.StatusNotFound)
		return
	}
	antecedentes := json.RawMessage(p.Antecedentes)
	if len(antecedentes) == 0 {
		antecedentes = json.RawMessage(`{}`)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"paciente_id":  p.ID.String(),
		"antecedentes": antecedentes,
	})
}

// PutAntecedentes overwrites only the medical-record payload; the rest of the
// patient record is untouched.
func (h *Handler) PutAntecedentes(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["pacienteId"])
	if err != nil {
		http.Error(w, `{"error":"paciente_id inválido"}`, http.StatusBadRequest)
		return
	}
	var req struct {
		Antecedentes json.RawMessage `json:"antecedentes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Antecedentes) == 0 {
		http.Error(w, `{"error":"cuerpo inválido"}`, http.StatusBadRequest)
		return
	}
	if !json.Valid(req.Antecedentes) {
		http.Error(w, `{"error":"antecedentes inválidos"}`, http.StatusBadRequest)
		return
	}
	if err := repo.UpdateAntecedentes(r.Context(), h.Pool, id, req.Antecedentes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, `{"error":"paciente no encontrado"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mensaje": "antecedentes guardados"})
}

// DeletePaciente removes the patient; the store's ON DELETE CASCADE takes its
// turnos with it.
func (h *Handler) DeletePaciente(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["pacienteId"])
	if err != nil {
		http.Error(w, `{"error":"paciente_id inválido"}`, http.StatusBadRequest)
		return
	}
	if err := repo.DeletePaciente(r.Context(), h.Pool, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, `{"error":"paciente no encontrado"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.invalidateAgenda()
	writeJSON(w, http.StatusOK, map[string]string{"mensaje": "paciente eliminado"})
}
