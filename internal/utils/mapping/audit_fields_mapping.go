package mapping

import (
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
)

// CreateAuditFields stamps a new document with server timestamps and the actor.
func CreateAuditFields(doc portsrepo.Document, actorID string) portsrepo.Document {
	doc["createdAt"] = portsrepo.ServerTimestamp
	doc["createdBy"] = actorID
	return UpdateAuditFields(doc, actorID)
}

// UpdateAuditFields re-stamps updatedAt/updatedBy on a field set.
func UpdateAuditFields(doc portsrepo.Document, actorID string) portsrepo.Document {
	doc["updatedAt"] = portsrepo.ServerTimestamp
	doc["updatedBy"] = actorID
	return doc
}
