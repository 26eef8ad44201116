package usecase

import (
	"context"
	"fmt"
	"strings"

	"talenthub/internal/service"

	"go.uber.org/zap"
)

type ChatUsecase struct {
	store  service.RealtimeStore
	logger *zap.Logger
}

func NewChatUsecase(store service.RealtimeStore, logger *zap.Logger) *ChatUsecase {
	return &ChatUsecase{store: store, logger: logger}
}

// RoomID synthesizes the deterministic room identifier.
func RoomID(recruiterID, candidateID, jobID string) string {
	return fmt.Sprintf("%s_%s_%s", recruiterID, candidateID, jobID)
}

// ResolveRoom finds the chat room for a recruiter/candidate/job triple.
// Rooms created by older clients may have the participants in swapped
// order, so that ID is tried as a fallback before treating the canonical ID
// as a new room.
func (uc *ChatUsecase) ResolveRoom(ctx context.Context, recruiterID, candidateID, jobID string) (string, error) {
	canonical := RoomID(recruiterID, candidateID, jobID)

	exists, err := uc.store.RoomExists(ctx, canonical)
	if err != nil {
		return "", fmt.Errorf("resolve room: %w", err)
	}
	if exists {
		return canonical, nil
	}

	swapped := RoomID(candidateID, recruiterID, jobID)
	exists, err = uc.store.RoomExists(ctx, swapped)
	if err != nil {
		return "", fmt.Errorf("resolve room: %w", err)
	}
	if exists {
		uc.logger.Debug("room resolved under swapped participant order",
			zap.String("room_id", swapped))
		return swapped, nil
	}

	// No room yet; the canonical ID is where clients will create it.
	return canonical, nil
}

// EnsureParticipant authorizes a user against a room. For rooms not yet
// materialized in the store, the participant IDs embedded in the room ID
// are authoritative.
func (uc *ChatUsecase) EnsureParticipant(ctx context.Context, userID, roomID string) error {
	members, err := uc.store.RoomMembers(ctx, roomID)
	if err != nil {
		return fmt.Errorf("load room members: %w", err)
	}

	if len(members) == 0 {
		parts := strings.Split(roomID, "_")
		if len(parts) >= 2 {
			members = parts[:2]
		}
	}

	for _, member := range members {
		if member == userID {
			return nil
		}
	}
	return fmt.Errorf("%w: user %s is not a participant of room %s", ErrForbidden, userID, roomID)
}
