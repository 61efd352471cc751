package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/anisan-cli/playcore/icon"
	"github.com/anisan-cli/playcore/key"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidValue = errors.New("invalid value")
	ErrOutOfRange   = errors.New("value out of range")
)

// bounds are the closed ranges numeric fields must stay within.
var bounds = map[string][2]float64{
	key.PlayerVolume:             {0, 100},
	key.PlayerRate:               {0.25, 4},
	key.PlayerSeekStep:           {1, 600},
	key.PlayerVolumeStep:         {1, 100},
	key.ChromeHideDelay:          {250, 60_000},
	key.GestureDoubleTapWindow:   {50, 2000},
	key.GestureDoubleTapRadius:   {1, 500},
	key.GestureTapSlop:           {0, 200},
	key.ScreenFullscreenCooldown: {0, 10_000},
	key.HistoryIntervalSecs:      {1, 3600},
	key.ThumbnailsDelayMs:        {0, 10_000},
}

// choices lists the accepted values of enumerated string fields.
func choices(k string) []string {
	switch k {
	case key.IconsVariant:
		return icon.AvailableVariants()
	case key.LogsLevel:
		return lo.Map(logrus.AllLevels, func(l logrus.Level, _ int) string { return l.String() })
	}
	return nil
}

// Section is the first segment of the key, such as "gesture".
func (f *Field) Section() string {
	section, _, _ := strings.Cut(f.Key, ".")
	return section
}

// Parse converts command-line values to the type of the field's default and
// checks them against the field's range or choices.
func (f *Field) Parse(raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: %w: no value", f.Key, ErrInvalidValue)
	}

	var v any
	switch f.Value.(type) {
	case string:
		if opts := choices(f.Key); len(opts) > 0 && !lo.Contains(opts, raw[0]) {
			return nil, fmt.Errorf("%s: %w: %q, expected one of %s", f.Key, ErrInvalidValue, raw[0], strings.Join(opts, ", "))
		}
		v = raw[0]
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %q is not a boolean", f.Key, ErrInvalidValue, raw[0])
		}
		v = b
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %q is not an integer", f.Key, ErrInvalidValue, raw[0])
		}
		if err := f.checkRange(float64(n)); err != nil {
			return nil, err
		}
		v = n
	case float64:
		n, err := strconv.ParseFloat(raw[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %q is not a number", f.Key, ErrInvalidValue, raw[0])
		}
		if err := f.checkRange(n); err != nil {
			return nil, err
		}
		v = n
	case []string:
		v = raw
	default:
		return nil, fmt.Errorf("%s: %w: unsupported type %s", f.Key, ErrInvalidValue, f.typeName())
	}
	return v, nil
}

func (f *Field) checkRange(n float64) error {
	r, ok := bounds[f.Key]
	if !ok || (n >= r[0] && n <= r[1]) {
		return nil
	}
	return fmt.Errorf("%s: %w: %v is outside [%v, %v]", f.Key, ErrOutOfRange, n, r[0], r[1])
}

// Sections groups the registered fields by section, each group sorted by key.
func Sections() (names []string, fields map[string][]Field) {
	fields = lo.GroupBy(lo.Values(Default), func(f Field) string { return f.Section() })
	for _, group := range fields {
		sort.Slice(group, func(i, j int) bool { return group[i].Key < group[j].Key })
	}

	names = lo.Keys(fields)
	sort.Strings(names)
	return names, fields
}
