package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yacobolo/gradgen/internal/gradient"
	"github.com/yacobolo/gradgen/internal/logging"
)

// StyleKey is the key the current style descriptor is stored under.
const StyleKey = "gradientStyle"

// ErrEmptyStyle is returned by RestoreStyle when the stored descriptor has
// no backgroundImage.
var ErrEmptyStyle = errors.New("store: stored style has no backgroundImage")

// SaveStyle writes style to s under StyleKey as a JSON object.
func SaveStyle(s Store, style gradient.Style) error {
	data, err := json.Marshal(style)
	if err != nil {
		return fmt.Errorf("store: failed to marshal style: %w", err)
	}
	return s.Set(StyleKey, string(data))
}

// RestoreStyle reads the last saved style. When nothing usable is stored it
// returns the default gradient's style together with the reason, so callers
// can always apply the returned value.
func RestoreStyle(s Store) (gradient.Style, error) {
	raw, err := s.Get(StyleKey)
	if err != nil {
		return gradient.Default().Style, err
	}

	var style gradient.Style
	if err := json.Unmarshal([]byte(raw), &style); err != nil {
		return gradient.Default().Style, fmt.Errorf("store: failed to parse stored style: %w", err)
	}
	if style.BackgroundImage() == "" {
		return gradient.Default().Style, ErrEmptyStyle
	}
	return style, nil
}

// Mirror returns a listener that saves every published style to s. Failures
// are logged, never propagated.
func Mirror(s Store, logger *slog.Logger) gradient.Listener {
	if logger == nil {
		logger = logging.Nop()
	}
	return func(r gradient.Result) {
		if err := SaveStyle(s, r.Style); err != nil {
			logger.Warn("failed to persist gradient style", "error", err)
			return
		}
		logger.Debug("persisted gradient style", "key", StyleKey)
	}
}
