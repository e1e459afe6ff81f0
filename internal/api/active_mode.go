package api

import "context"

// ActiveMode reports whether active mode is currently on. Unset means on:
// continuous ingestion is the default expectation (GLOSSARY, "Active mode").
func (s *Surface) ActiveMode(ctx context.Context) (bool, error) {
	value, ok, err := s.store.GetSetting(ctx, activeModeSetting)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return value == "true", nil
}

// SetActiveMode sets active mode to an explicit value.
func (s *Surface) SetActiveMode(ctx context.Context, on bool) (bool, error) {
	value := "false"
	if on {
		value = "true"
	}
	if err := s.store.SetSetting(ctx, activeModeSetting, value); err != nil {
		return false, err
	}
	return on, nil
}

// ToggleActiveMode flips active mode and returns its new value.
func (s *Surface) ToggleActiveMode(ctx context.Context) (bool, error) {
	current, err := s.ActiveMode(ctx)
	if err != nil {
		return false, err
	}
	return s.SetActiveMode(ctx, !current)
}
