package guestpage

import (
	"context"

	"github.com/iliyamo/eventpage/internal/model"
	"github.com/iliyamo/eventpage/internal/repository"
)

// RepoSource reads module data from the MySQL repositories.
type RepoSource struct {
	ScheduleRepo *repository.ScheduleRepo
	MenuRepo     *repository.MenuRepo
	SurveyRepo   *repository.SurveyRepo
	VendorRepo   *repository.VendorRepo
	PhotoRepo    *repository.PhotoRepo
	BingoRepo    *repository.BingoRepo
}

func (s RepoSource) Schedule(ctx context.Context, eventID string) ([]*model.ScheduleItem, error) {
	return s.ScheduleRepo.ListByEvent(ctx, eventID)
}

func (s RepoSource) Menu(ctx context.Context, eventID string) ([]*model.MenuItem, error) {
	return s.MenuRepo.ListByEvent(ctx, eventID)
}

func (s RepoSource) Questions(ctx context.Context, eventID string) ([]*model.SurveyQuestion, error) {
	return s.SurveyRepo.Questions(ctx, eventID)
}

func (s RepoSource) Vendors(ctx context.Context, eventID string) ([]*model.Vendor, error) {
	return s.VendorRepo.ListByEvent(ctx, eventID)
}

func (s RepoSource) Photos(ctx context.Context, eventID string, limit int) ([]*model.Photo, error) {
	return s.PhotoRepo.ListByEvent(ctx, eventID, limit)
}

func (s RepoSource) BingoCard(ctx context.Context, eventID string) (*model.BingoCard, error) {
	return s.BingoRepo.CardByEvent(ctx, eventID)
}
