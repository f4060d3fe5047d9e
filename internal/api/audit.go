package api

import "github.com/nerrad567/devicekeeper/internal/audit"

// recordAudit hands an event to the recorder, if one is configured. The
// recorder never blocks, so this is safe on the request path.
func (s *Server) recordAudit(action, entityType string, entityID, userID int64) {
	if s.auditor == nil {
		return
	}
	s.auditor.Record(audit.Event{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		Source:     audit.SourceAPI,
	})
}
