package catalog

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"wizkid-challenge/internal/domain"
)

var validate = validator.New()

// Validate checks every question and rejects duplicate IDs or misfiled subjects.
func Validate(c domain.Catalog) error {
	if c.Size() == 0 {
		return domain.ErrEmptyCatalog
	}
	seen := make(map[string]struct{}, c.Size())
	for subject, questions := range c {
		if !subject.Valid() {
			return fmt.Errorf("%w: unknown subject %q", domain.ErrInvalidQuestion, subject)
		}
		for _, q := range questions {
			if err := ValidateQuestion(q); err != nil {
				return err
			}
			if q.Subject != subject {
				return fmt.Errorf("%w: %s filed under %s but has subject %s", domain.ErrInvalidQuestion, q.ID, subject, q.Subject)
			}
			if _, dup := seen[q.ID]; dup {
				return fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidQuestion, q.ID)
			}
			seen[q.ID] = struct{}{}
		}
	}
	return nil
}

// ValidateQuestion enforces 2-6 non-empty options and an in-range answer key.
func ValidateQuestion(q domain.Question) error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidQuestion, q.ID, err)
	}
	if !q.Subject.Valid() {
		return fmt.Errorf("%w: %s: unknown subject %q", domain.ErrInvalidQuestion, q.ID, q.Subject)
	}
	if q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("%w: %s: correct index %d out of range", domain.ErrInvalidQuestion, q.ID, q.CorrectIndex)
	}
	return nil
}

// FromQuestions groups a flat question list by subject.
func FromQuestions(questions []domain.Question) domain.Catalog {
	c := make(domain.Catalog)
	for _, q := range questions {
		c[q.Subject] = append(c[q.Subject], q)
	}
	return c
}
