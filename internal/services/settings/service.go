package settings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/interfaces"
	"github.com/ternarybob/lunchwheel/internal/models"
)

// ErrInvalidSettings is returned when settings fail validation
var ErrInvalidSettings = errors.New("invalid settings")

var priceRangePattern = regexp.MustCompile(`^[1-4],[1-4]$`)

// Per-field rules, kept in step with the validate tags on models.Settings
const (
	distanceRules = "finite,gt=0"
	priceRules    = "required,pricerange"
)

// Service loads and saves the user's search settings
type Service struct {
	storage  interfaces.KeyValueStorage
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewService creates a new settings service
func NewService(storage interfaces.KeyValueStorage, logger arbor.ILogger) *Service {
	validate := validator.New()
	validate.RegisterValidation("pricerange", func(fl validator.FieldLevel) bool {
		return priceRangePattern.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		v := fl.Field().Float()
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	})

	return &Service{
		storage:  storage,
		validate: validate,
		logger:   logger,
	}
}

// Load returns the stored settings, using the default for every missing, unreadable or invalid field
func (s *Service) Load(ctx context.Context) (models.Settings, error) {
	settings := models.DefaultSettings()

	distance, err := s.storage.Get(ctx, models.SettingsKeyDistance)
	switch {
	case err == nil:
		parsed, perr := strconv.ParseFloat(distance, 64)
		switch {
		case perr != nil:
			s.logger.Warn().Str("value", distance).Msg("Stored distance is not a number, using default")
		case s.validate.Var(parsed, distanceRules) != nil:
			s.logger.Warn().Str("value", distance).Msg("Stored distance is out of range, using default")
		default:
			settings.Distance = parsed
		}
	case errors.Is(err, interfaces.ErrKeyNotFound):
	default:
		return settings, fmt.Errorf("failed to load distance: %w", err)
	}

	price, err := s.storage.Get(ctx, models.SettingsKeyPrice)
	switch {
	case err == nil:
		if verr := s.validate.Var(price, priceRules); verr != nil {
			s.logger.Warn().Str("value", price).Msg("Stored price range is invalid, using default")
		} else {
			settings.Price = price
		}
	case errors.Is(err, interfaces.ErrKeyNotFound):
	default:
		return settings, fmt.Errorf("failed to load price: %w", err)
	}

	return settings, nil
}

// Validate checks distance is positive and finite and price is "<min>,<max>" in 1..4
func (s *Service) Validate(settings models.Settings) error {
	if err := s.validate.Struct(settings); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", ErrInvalidSettings, fieldErrs[0].Field(), fieldErrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}

// Save validates and persists both fields together
func (s *Service) Save(ctx context.Context, settings models.Settings) error {
	if err := s.Validate(settings); err != nil {
		return err
	}

	err := s.storage.SetMany(ctx, map[string]string{
		models.SettingsKeyDistance: strconv.FormatFloat(settings.Distance, 'f', -1, 64),
		models.SettingsKeyPrice:    settings.Price,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to save settings")
		return fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Info().
		Float64("distance", settings.Distance).
		Str("price", settings.Price).
		Msg("Settings saved")
	return nil
}
