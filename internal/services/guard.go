package services

import "github.com/google/uuid"

// Ownership predicates gating every mutation. There is no moderator role:
// content owners act on their own content, with the single exception that a
// video's owner may also delete comments left on that video.

func canMutate(identity, ownerID uuid.UUID) bool {
	return identity != uuid.Nil && identity == ownerID
}

func canDeleteComment(identity, commentOwnerID, videoOwnerID uuid.UUID) bool {
	return canMutate(identity, commentOwnerID) || canMutate(identity, videoOwnerID)
}
