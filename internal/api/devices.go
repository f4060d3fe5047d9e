package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/devicekeeper/internal/audit"
	"github.com/nerrad567/devicekeeper/internal/auth"
	"github.com/nerrad567/devicekeeper/internal/device"
	"github.com/nerrad567/devicekeeper/internal/location"
)

const (
	msgInvalidDevice       = "Invalid device fields"
	msgInvalidLocationName = "Invalid location_name"
)

// handleListDevices returns every device with its location and owner names.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.devices.List(r.Context())
	if err != nil {
		s.logger.Error("listing devices", "error", err)
		writeInternalError(w)
		return
	}
	if devices == nil {
		devices = []device.Details{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleCreateDevice stores a device owned by the caller and redirects to it.
func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, msgAuthMissing)
		return
	}

	body, err := parseBody(r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	fields, ok := body.require("name", "type", "login", "password", "location_name")
	if !ok {
		writeBadRequest(w, msgMissingFields)
		return
	}

	d, err := s.devices.Create(r.Context(), userID, device.CreateInput{
		Name:         fields[0],
		Type:         fields[1],
		Login:        fields[2],
		Password:     fields[3],
		LocationName: fields[4],
	})
	if err != nil {
		s.writeDeviceError(w, r, err)
		return
	}

	s.recordAudit(audit.ActionCreated, audit.EntityDevice, d.ID, userID)
	http.Redirect(w, r, devicePath(d.ID), http.StatusFound)
}

// handleGetDevice returns a single device by ID.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(r)
	if !ok {
		writeNotFound(w, msgDeviceNotFound)
		return
	}

	details, err := s.devices.Get(r.Context(), id)
	if err != nil {
		s.writeDeviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// handleUpdateDevice applies a partial update. The caller becomes the owner.
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, msgAuthMissing)
		return
	}
	id, ok := deviceID(r)
	if !ok {
		writeNotFound(w, msgDeviceNotFound)
		return
	}

	body, err := parseBody(r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	patch := device.Patch{
		Name:         body.optional("name"),
		Type:         body.optional("type"),
		Login:        body.optional("login"),
		LocationName: body.optional("location_name"),
	}
	if err := s.devices.Update(r.Context(), userID, id, patch); err != nil {
		s.writeDeviceError(w, r, err)
		return
	}

	s.recordAudit(audit.ActionUpdated, audit.EntityDevice, id, userID)
	http.Redirect(w, r, devicePath(id), http.StatusFound)
}

// handleUpdateDevicePassword rotates the stored device password.
func (s *Server) handleUpdateDevicePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, msgAuthMissing)
		return
	}
	id, ok := deviceID(r)
	if !ok {
		writeNotFound(w, msgDeviceNotFound)
		return
	}

	body, err := parseBody(r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	fields, ok := body.require("old_password", "new_password")
	if !ok {
		writeBadRequest(w, msgMissingFields)
		return
	}

	if err := s.devices.RotatePassword(r.Context(), userID, id, fields[0], fields[1]); err != nil {
		s.writeDeviceError(w, r, err)
		return
	}

	s.recordAudit(audit.ActionPasswordRotated, audit.EntityDevice, id, userID)
	http.Redirect(w, r, devicePath(id), http.StatusFound)
}

// handleDeleteDevice removes a device.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(r)
	if !ok {
		writeNotFound(w, msgDeviceNotFound)
		return
	}

	if err := s.devices.Delete(r.Context(), id); err != nil {
		s.writeDeviceError(w, r, err)
		return
	}

	userID, _ := UserIDFromContext(r.Context())
	s.recordAudit(audit.ActionDeleted, audit.EntityDevice, id, userID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Device deleted"})
}

// writeDeviceError maps device service errors to HTTP responses.
func (s *Server) writeDeviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, device.ErrDeviceNotFound):
		writeNotFound(w, msgDeviceNotFound)
	case errors.Is(err, device.ErrMissingFields):
		writeBadRequest(w, msgMissingFields)
	case errors.Is(err, device.ErrNoFieldsToUpdate):
		writeBadRequest(w, msgNoFieldsToUpdate)
	case errors.Is(err, device.ErrInvalidDevice):
		writeBadRequest(w, msgInvalidDevice)
	case errors.Is(err, location.ErrInvalidName):
		writeBadRequest(w, msgInvalidLocationName)
	case errors.Is(err, auth.ErrPasswordTooLong):
		writeBadRequest(w, msgPasswordTooLong)
	case errors.Is(err, device.ErrInvalidOldPassword):
		writeUnauthorized(w, msgInvalidOldPassword)
	default:
		s.logger.Error("device operation failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeInternalError(w)
	}
}

// deviceID reads the {id} URL parameter. The router only matches digits, so
// failure means the value overflowed int64.
func deviceID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func devicePath(id int64) string {
	return "/devices/" + strconv.FormatInt(id, 10)
}
