package application

import (
	"context"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

type questionnaireService struct {
	rules     *domain.ClassificationRules
	responses QuestionnaireRepository
	users     UserRepository
	now       Clock
}

// NewQuestionnaireService scores submissions with rules.
func NewQuestionnaireService(rules *domain.ClassificationRules, responses QuestionnaireRepository, users UserRepository, clock Clock) QuestionnaireService {
	if clock == nil {
		clock = systemClock
	}
	return &questionnaireService{rules: rules, responses: responses, users: users, now: clock}
}

func (s *questionnaireService) Rules() *domain.ClassificationRules {
	return s.rules
}

// Submit stores the response and copies the classification onto the artist.
// Genres given in the questionnaire replace the profile genres when present.
func (s *questionnaireService) Submit(ctx context.Context, artistID string, answers domain.QuestionnaireAnswers) (*domain.QuestionnaireResponse, error) {
	user, err := s.users.FindByID(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if !user.IsArtist() || !user.IsActive() {
		return nil, domain.ErrForbidden
	}
	if err := answers.Normalize(s.rules); err != nil {
		return nil, err
	}

	now := s.now()
	classification := s.rules.Classify(answers, now)
	resp := &domain.QuestionnaireResponse{
		ArtistID:       artistID,
		Answers:        answers,
		Classification: classification,
		SubmittedAt:    now,
	}
	if err := s.responses.Create(ctx, resp); err != nil {
		return nil, err
	}

	if err := s.users.SetClassification(ctx, artistID, classification, answers.Genres, now); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *questionnaireService) Latest(ctx context.Context, artistID string) (*domain.QuestionnaireResponse, error) {
	return s.responses.Latest(ctx, artistID)
}
