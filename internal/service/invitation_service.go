package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/teamflow-app/teamflow-backend/internal/models"
	"github.com/teamflow-app/teamflow-backend/internal/repository"
	"github.com/teamflow-app/teamflow-backend/internal/socket"
)

// InvitationTTL is the validity window of an invitation from creation.
const InvitationTTL = 7 * 24 * time.Hour

// InvitationService governs the invitation lifecycle: pending moves to
// accepted or declined, both terminal. Expiry is passive, derived from
// expires_at when reading, never stored as a status.
type InvitationService interface {
	Send(ctx context.Context, workspaceID, inviterID, email string) (*repository.Invitation, error)
	ListMine(ctx context.Context, email string) ([]*repository.Invitation, error)
	ListForWorkspace(ctx context.Context, workspaceID, requesterID string) ([]*repository.Invitation, error)

	// Respond applies the responder's decision. On an accept that
	// created a membership it returns the workspace ID; otherwise the
	// returned pointer is nil (declines, and accepts by users who were
	// already members).
	Respond(ctx context.Context, invitationID, userID string, decision models.InvitationDecision) (*string, error)
}

type invitationService struct {
	invRepo       repository.InvitationRepository
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
	memberSvc     MemberService
	broadcaster   *socket.Broadcaster
	now           func() time.Time
}

func NewInvitationService(
	invRepo repository.InvitationRepository,
	workspaceRepo repository.WorkspaceRepository,
	userRepo repository.UserRepository,
	memberSvc MemberService,
	broadcaster *socket.Broadcaster,
) InvitationService {
	return &invitationService{
		invRepo:       invRepo,
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
		memberSvc:     memberSvc,
		broadcaster:   broadcaster,
		now:           time.Now,
	}
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func (s *invitationService) Send(ctx context.Context, workspaceID, inviterID, email string) (*repository.Invitation, error) {
	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrNotFound
	}

	inviter, err := s.workspaceRepo.FindMember(ctx, workspaceID, inviterID)
	if err != nil {
		return nil, err
	}
	if inviter == nil {
		return nil, ErrNotMember
	}

	email = normalizeEmail(email)

	// Capture the invitee's user ID if the email belongs to a
	// registered user, and refuse to invite an existing member.
	invitee, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	var inviteeID *string
	if invitee != nil {
		existing, err := s.workspaceRepo.FindMember(ctx, workspaceID, invitee.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrAlreadyMember
		}
		inviteeID = &invitee.ID
	}

	pending, err := s.invRepo.FindPendingByWorkspaceAndEmail(ctx, workspaceID, email)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrDuplicateInvitation
	}

	now := s.now()
	invitation := &repository.Invitation{
		WorkspaceID:  workspaceID,
		InviterID:    inviterID,
		InviteeEmail: email,
		InviteeID:    inviteeID,
		Status:       string(models.InvitationPending),
		ExpiresAt:    now.Add(InvitationTTL),
	}
	if err := s.invRepo.Create(ctx, invitation); err != nil {
		// The partial unique index catches the race between the
		// pending-check above and this insert.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateInvitation
		}
		return nil, err
	}

	if s.broadcaster != nil && inviteeID != nil {
		s.broadcaster.SendToUser(*inviteeID, socket.EventInvitationReceived, map[string]string{
			"invitationId": invitation.ID,
			"workspaceId":  workspaceID,
		})
	}

	return invitation, nil
}

func (s *invitationService) ListMine(ctx context.Context, email string) ([]*repository.Invitation, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrBadRequest
	}
	invitations, err := s.invRepo.FindPendingByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.filterExpired(invitations), nil
}

func (s *invitationService) ListForWorkspace(ctx context.Context, workspaceID, requesterID string) ([]*repository.Invitation, error) {
	requester, err := s.workspaceRepo.FindMember(ctx, workspaceID, requesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, ErrNotMember
	}

	invitations, err := s.invRepo.FindPendingByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return s.filterExpired(invitations), nil
}

// filterExpired drops rows past their expiry from listings. The rows
// themselves are left untouched: expiry is a read-time property, not a
// transition.
func (s *invitationService) filterExpired(invitations []*repository.Invitation) []*repository.Invitation {
	now := s.now()
	live := make([]*repository.Invitation, 0, len(invitations))
	for _, inv := range invitations {
		if !inv.IsExpired(now) {
			live = append(live, inv)
		}
	}
	return live
}

func (s *invitationService) Respond(ctx context.Context, invitationID, userID string, decision models.InvitationDecision) (*string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	invitation, err := s.invRepo.FindByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, ErrNotFound
	}

	// Identity is bound by email at response time: the invitation can
	// only be claimed by whoever currently holds the invited address.
	if invitation.InviteeEmail != normalizeEmail(user.Email) {
		return nil, ErrUnauthorized
	}

	if invitation.Status != string(models.InvitationPending) {
		return nil, ErrAlreadyResponded
	}
	if invitation.IsExpired(s.now()) {
		return nil, ErrInvitationExpired
	}

	newStatus := models.InvitationDeclined
	if decision == models.DecisionAccept {
		newStatus = models.InvitationAccepted
	}

	// Conditional write: only one responder can move the row out of
	// pending. A loser that observed pending above finds the
	// transition already taken here.
	transitioned, err := s.invRepo.MarkResponded(ctx, invitationID, string(newStatus))
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, ErrAlreadyResponded
	}

	if decision != models.DecisionAccept {
		s.notifyInviter(invitation, "declined")
		return nil, nil
	}

	workspace, err := s.workspaceRepo.FindByID(ctx, invitation.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrNotFound
	}

	_, created, err := s.memberSvc.Provision(ctx, userID, invitation.WorkspaceID, models.RoleMember)
	if err != nil {
		return nil, err
	}

	s.notifyInviter(invitation, "accepted")

	if !created {
		return nil, nil
	}
	workspaceID := invitation.WorkspaceID
	return &workspaceID, nil
}

func (s *invitationService) notifyInviter(invitation *repository.Invitation, outcome string) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.SendToUser(invitation.InviterID, socket.EventInvitationResponded, map[string]string{
		"invitationId": invitation.ID,
		"workspaceId":  invitation.WorkspaceID,
		"outcome":      outcome,
	})
}
