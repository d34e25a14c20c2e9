// internal/seed/seed.go
package seed

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/teamflow-app/teamflow-backend/internal/repository"
)

// SeedData creates a small development dataset covering the main
// scenarios: an owner, an admin, a plain member, and an outside user
// with a pending invitation.
func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	existing, err := repos.UserRepo.FindByEmail(ctx, "alice@teamflow.dev")
	if err != nil {
		log.Printf("[Seed] Skipping, lookup failed: %v", err)
		return
	}
	if existing != nil {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] Creating initial data...")

	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// Alice owns the workspace.
	alice := &repository.User{
		Email:    "alice@teamflow.dev",
		Password: string(password),
		Name:     "Alice Moreau",
	}
	repos.UserRepo.Create(ctx, alice)

	// Ben is an admin.
	ben := &repository.User{
		Email:    "ben@teamflow.dev",
		Password: string(password),
		Name:     "Ben Okafor",
	}
	repos.UserRepo.Create(ctx, ben)

	// Carla is a plain member.
	carla := &repository.User{
		Email:    "carla@teamflow.dev",
		Password: string(password),
		Name:     "Carla Reyes",
	}
	repos.UserRepo.Create(ctx, carla)

	// Dev is registered but not a member; holds a pending invitation.
	dev := &repository.User{
		Email:    "dev@teamflow.dev",
		Password: string(password),
		Name:     "Dev Sharma",
	}
	repos.UserRepo.Create(ctx, dev)

	log.Println("[Seed] Created 4 users")

	inviteCode := uuid.NewString()
	workspace := &repository.Workspace{
		Name:        "TeamFlow HQ",
		Description: stringPtr("Main development workspace"),
		OwnerID:     alice.ID,
		InviteCode:  &inviteCode,
	}
	repos.WorkspaceRepo.Create(ctx, workspace)

	repos.WorkspaceRepo.AddMember(ctx, &repository.Member{
		UserID:      alice.ID,
		WorkspaceID: workspace.ID,
		Role:        "OWNER",
	})
	repos.WorkspaceRepo.AddMember(ctx, &repository.Member{
		UserID:      ben.ID,
		WorkspaceID: workspace.ID,
		Role:        "ADMIN",
	})
	repos.WorkspaceRepo.AddMember(ctx, &repository.Member{
		UserID:      carla.ID,
		WorkspaceID: workspace.ID,
		Role:        "MEMBER",
	})

	log.Println("[Seed] Created workspace: TeamFlow HQ (Alice owner, Ben admin, Carla member)")

	repos.InvitationRepo.Create(ctx, &repository.Invitation{
		WorkspaceID:  workspace.ID,
		InviterID:    alice.ID,
		InviteeEmail: dev.Email,
		InviteeID:    &dev.ID,
		Status:       "pending",
		ExpiresAt:    time.Now().Add(7 * 24 * time.Hour),
	})

	log.Println("[Seed] Created pending invitation for dev@teamflow.dev")

	project := &repository.Project{
		WorkspaceID: workspace.ID,
		Name:        "Launch Plan",
		Emoji:       stringPtr("🚀"),
		Description: stringPtr("Everything needed for the v1 launch"),
		CreatedBy:   alice.ID,
	}
	repos.ProjectRepo.Create(ctx, project)

	hours := decimal.NewFromFloat(4.5)
	due := time.Now().Add(72 * time.Hour)
	repos.TaskRepo.Create(ctx, &repository.Task{
		WorkspaceID:    workspace.ID,
		ProjectID:      project.ID,
		Title:          "Write onboarding docs",
		Description:    stringPtr("Cover signup, workspaces, and invitations"),
		Status:         "TODO",
		Priority:       "HIGH",
		AssignedTo:     &carla.ID,
		CreatedBy:      alice.ID,
		DueDate:        &due,
		EstimatedHours: &hours,
	})
	repos.TaskRepo.Create(ctx, &repository.Task{
		WorkspaceID: workspace.ID,
		ProjectID:   project.ID,
		Title:       "Set up staging environment",
		Status:      "IN_PROGRESS",
		Priority:    "MEDIUM",
		AssignedTo:  &ben.ID,
		CreatedBy:   ben.ID,
	})

	log.Println("[Seed] Created project with 2 tasks")
	log.Println("[Seed] Done. Login with alice@teamflow.dev / password123")
}

func stringPtr(s string) *string {
	return &s
}
