package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// incidentDateLayouts are the accepted incident date formats, tried in order
var incidentDateLayouts = []string{"2006-01-02", time.RFC3339}

// ClaimService handles insurance claims and their participants
type ClaimService struct {
	db *gorm.DB
}

// NewClaimService creates a new claim service
func NewClaimService(db *gorm.DB) *ClaimService {
	return &ClaimService{db: db}
}

// ParseCollaboratorEmails splits a comma separated list, normalizes each address,
// drops blanks and excludeEmail, and removes duplicates preserving order.
func ParseCollaboratorEmails(raw, excludeEmail string) []string {
	excludeEmail = NormalizeEmail(excludeEmail)
	seen := make(map[string]struct{})
	var emails []string
	for _, part := range strings.Split(raw, ",") {
		email := NormalizeEmail(part)
		if email == "" || email == excludeEmail {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		emails = append(emails, email)
	}
	return emails
}

func parseIncidentDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: incident date is required", ErrValidation)
	}
	for _, layout := range incidentDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid incident date %q", ErrValidation, raw)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// requireParticipant fails with ErrNotFound for a missing claim and ErrForbidden for a non-participant
func requireParticipant(db *gorm.DB, claimID, userID string) error {
	var count int64
	if err := db.Model(&models.Claim{}).Where("claim_id = ?", claimID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to load claim: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: claim %s", ErrNotFound, claimID)
	}
	if err := db.Model(&models.ClaimParticipant{}).
		Where("claim_id = ? AND user_id = ?", claimID, userID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to load participants: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: not a participant of claim %s", ErrForbidden, claimID)
	}
	return nil
}

// addParticipants resolves or creates each email and attaches it as a COLLABORATOR.
// Existing participants are skipped. It returns the number of rows inserted.
func addParticipants(tx *gorm.DB, claimID string, emails []string) (int64, error) {
	var added int64
	for _, email := range emails {
		user, err := resolveOrCreate(tx, email)
		if err != nil {
			return 0, err
		}
		participant := models.ClaimParticipant{
			ParticipantID: models.ParticipantIDPrefix + uuid.New().String(),
			ClaimID:       claimID,
			UserID:        user.UserID,
			Role:          models.ParticipantRoleCollaborator,
		}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "claim_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&participant)
		if result.Error != nil {
			return 0, fmt.Errorf("failed to add participant: %w", result.Error)
		}
		added += result.RowsAffected
	}
	return added, nil
}

func preloadClaim(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Item").
		Preload("Participants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Participants.User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Comments.Author")
}

func (s *ClaimService) loadClaim(db *gorm.DB, claimID string) (*models.ClaimResponse, error) {
	var claim models.Claim
	if err := preloadClaim(db).First(&claim, "claim_id = ?", claimID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: claim %s", ErrNotFound, claimID)
		}
		return nil, fmt.Errorf("failed to load claim: %w", err)
	}
	resp := claim.ToResponse()
	return &resp, nil
}

// CreateClaim opens a DRAFT claim owned by the actor, referencing items visible to them
// and inviting collaborators. All writes share one transaction.
func (s *ClaimService) CreateClaim(ctx context.Context, actor *models.User, req *models.CreateClaimRequest) (*models.ClaimResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(title) > models.MaxNameLength {
		return nil, fmt.Errorf("%w: title must be at most %d characters", ErrValidation, models.MaxNameLength)
	}
	description, err := validateDescription(req.Description)
	if err != nil {
		return nil, err
	}
	incidentDate, err := parseIncidentDate(req.IncidentDate)
	if err != nil {
		return nil, err
	}
	itemIDs := dedupe(req.ItemIDs.NonEmpty())
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrValidation)
	}
	emails := ParseCollaboratorEmails(req.Collaborators, actor.Email)
	for _, email := range emails {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}

	claim := models.Claim{
		ClaimID:      models.ClaimIDPrefix + uuid.New().String(),
		Title:        title,
		Description:  description,
		IncidentDate: incidentDate,
		Status:       models.ClaimStatusDraft,
		CreatedByID:  actor.UserID,
	}

	db := s.db.WithContext(ctx)
	err = db.Transaction(func(tx *gorm.DB) error {
		memberRooms := tx.Model(&models.RoomMembership{}).Select("room_id").Where("user_id = ?", actor.UserID)
		var visible int64
		if err := tx.Model(&models.Item{}).
			Where("item_id IN ? AND room_id IN (?)", itemIDs, memberRooms).
			Count(&visible).Error; err != nil {
			return fmt.Errorf("failed to load items: %w", err)
		}
		if visible != int64(len(itemIDs)) {
			return fmt.Errorf("%w: one or more items do not exist or are not accessible", ErrNotFound)
		}

		if err := tx.Create(&claim).Error; err != nil {
			return fmt.Errorf("failed to create claim: %w", err)
		}

		owner := models.ClaimParticipant{
			ParticipantID: models.ParticipantIDPrefix + uuid.New().String(),
			ClaimID:       claim.ClaimID,
			UserID:        actor.UserID,
			Role:          models.ParticipantRoleOwner,
		}
		if err := tx.Create(&owner).Error; err != nil {
			return fmt.Errorf("failed to add claim owner: %w", err)
		}

		if _, err := addParticipants(tx, claim.ClaimID, emails); err != nil {
			return err
		}

		claimItems := make([]models.ClaimItem, 0, len(itemIDs))
		for _, itemID := range itemIDs {
			claimItems = append(claimItems, models.ClaimItem{
				ClaimItemID: models.ClaimItemIDPrefix + uuid.New().String(),
				ClaimID:     claim.ClaimID,
				ItemID:      itemID,
			})
		}
		if err := tx.Create(&claimItems).Error; err != nil {
			return fmt.Errorf("failed to attach items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Claim created", "claimId", claim.ClaimID, "userId", actor.UserID,
		"items", len(itemIDs), "collaborators", len(emails))
	return s.loadClaim(db, claim.ClaimID)
}

// ListClaimsForUser returns the claims the user participates in, newest first
func (s *ClaimService) ListClaimsForUser(ctx context.Context, userID string) ([]models.ClaimResponse, error) {
	db := s.db.WithContext(ctx)
	participating := db.Model(&models.ClaimParticipant{}).Select("claim_id").Where("user_id = ?", userID)

	var claims []models.Claim
	if err := preloadClaim(db).
		Where("claim_id IN (?)", participating).
		Order("created_at DESC").
		Find(&claims).Error; err != nil {
		return nil, fmt.Errorf("failed to load claims: %w", err)
	}

	responses := make([]models.ClaimResponse, 0, len(claims))
	for i := range claims {
		responses = append(responses, claims[i].ToResponse())
	}
	return responses, nil
}

// GetClaim returns a claim to one of its participants
func (s *ClaimService) GetClaim(ctx context.Context, userID, claimID string) (*models.ClaimResponse, error) {
	db := s.db.WithContext(ctx)
	if err := requireParticipant(db, claimID, userID); err != nil {
		return nil, err
	}
	return s.loadClaim(db, claimID)
}

// UpdateStatus sets the claim status to any known value. No transition order is enforced.
func (s *ClaimService) UpdateStatus(ctx context.Context, userID, claimID string, status models.ClaimStatus) (*models.ClaimResponse, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}

	db := s.db.WithContext(ctx)
	if err := requireParticipant(db, claimID, userID); err != nil {
		return nil, err
	}
	if err := db.Model(&models.Claim{}).Where("claim_id = ?", claimID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error; err != nil {
		return nil, fmt.Errorf("failed to update claim status: %w", err)
	}

	slog.Info("Claim status updated", "claimId", claimID, "status", status, "userId", userID)
	return s.loadClaim(db, claimID)
}

// InviteCollaborators adds participants by email, provisioning unknown users.
// It returns how many new participants were added.
func (s *ClaimService) InviteCollaborators(ctx context.Context, actor *models.User, claimID, rawEmails string) (int64, error) {
	emails := ParseCollaboratorEmails(rawEmails, actor.Email)
	if len(emails) == 0 {
		return 0, fmt.Errorf("%w: at least one collaborator email is required", ErrValidation)
	}
	for _, email := range emails {
		if err := validateEmail(email); err != nil {
			return 0, err
		}
	}

	var added int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireParticipant(tx, claimID, actor.UserID); err != nil {
			return err
		}
		n, err := addParticipants(tx, claimID, emails)
		if err != nil {
			return err
		}
		added = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("Claim collaborators invited", "claimId", claimID, "added", added, "userId", actor.UserID)
	return added, nil
}

// AddComment appends a comment authored by the actor
func (s *ClaimService) AddComment(ctx context.Context, userID, claimID, body string) (*models.CommentResponse, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: comment body is required", ErrValidation)
	}
	if len(body) > models.MaxCommentLength {
		return nil, fmt.Errorf("%w: comment must be at most %d characters", ErrValidation, models.MaxCommentLength)
	}

	db := s.db.WithContext(ctx)
	if err := requireParticipant(db, claimID, userID); err != nil {
		return nil, err
	}

	comment := models.ClaimComment{
		CommentID: models.CommentIDPrefix + uuid.New().String(),
		ClaimID:   claimID,
		AuthorID:  userID,
		Body:      body,
	}
	if err := db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	if err := db.First(&comment.Author, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to load author: %w", err)
	}

	return &models.CommentResponse{
		CommentID: comment.CommentID,
		Body:      comment.Body,
		Author:    comment.Author.ToResponse(),
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
	}, nil
}
