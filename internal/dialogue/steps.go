package dialogue

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/AlekSi/pointer"

	"github.com/sayyorqabul/appealbot/internal/appeal"
)

// Button value prefixes. Values look like "reg|11".
const (
	prefixLang    = "lang"
	prefixRegion  = "reg"
	prefixMode    = "mode"
	prefixType    = "type"
	prefixConfirm = "confirm"

	confirmYes = "yes"
	confirmNo  = "no"
)

var errIgnored = errors.New("input not expected in this state")

type step struct {
	accepts []EventKind
	// apply validates the event and records the answer on success. It
	// returns the transition to fire next.
	apply func(s *Session, ev Event) (string, error)
}

func (st step) accept(kind EventKind) bool {
	return slices.Contains(st.accepts, kind)
}

var steps = map[string]step{
	StateLang:       {accepts: []EventKind{KindButton}, apply: applyLang},
	StateRegion:     {accepts: []EventKind{KindButton}, apply: applyRegion},
	StateMode:       {accepts: []EventKind{KindButton}, apply: applyMode},
	StateName:       {accepts: []EventKind{KindText}, apply: applyName},
	StateDOB:        {accepts: []EventKind{KindText}, apply: applyDOB},
	StateDistrict:   {accepts: []EventKind{KindText}, apply: applyDistrict},
	StateContact:    {accepts: []EventKind{KindContact, KindText}, apply: applyContact},
	StateAppealType: {accepts: []EventKind{KindButton}, apply: applyAppealType},
	StateContent:    {accepts: []EventKind{KindText}, apply: applyContent},
	StateConfirm:    {accepts: []EventKind{KindButton}, apply: applyConfirm},
}

func buttonValue(prefix, arg string) string {
	return prefix + "|" + arg
}

func buttonArg(value, prefix string) (string, bool) {
	return strings.CutPrefix(value, prefix+"|")
}

func buttonIndex(value, prefix string, n int) (int, bool) {
	arg, ok := buttonArg(value, prefix)
	if !ok {
		return 0, false
	}

	i, err := strconv.Atoi(arg)
	if err != nil || i < 0 || i >= n {
		return 0, false
	}

	return i, true
}

func applyLang(s *Session, ev Event) (string, error) {
	arg, ok := buttonArg(ev.Value, prefixLang)
	if !ok || !appeal.Locale(arg).Valid() {
		return "", errIgnored
	}

	s.Locale = appeal.Locale(arg)
	return transitionNext, nil
}

func applyRegion(s *Session, ev Event) (string, error) {
	regions := TextsFor(s.Locale).Regions
	i, ok := buttonIndex(ev.Value, prefixRegion, len(regions))
	if !ok {
		return "", errIgnored
	}

	s.Region = pointer.To(regions[i])
	return transitionNext, nil
}

func applyMode(s *Session, ev Event) (string, error) {
	arg, ok := buttonArg(ev.Value, prefixMode)
	if !ok || !appeal.Mode(arg).Valid() {
		return "", errIgnored
	}

	s.Mode = pointer.To(appeal.Mode(arg))
	return transitionNext, nil
}

func applyName(s *Session, ev Event) (string, error) {
	name, err := NormalizeText(ev.Text)
	if err != nil {
		return "", err
	}

	s.FullName = pointer.To(name)
	return transitionNext, nil
}

func applyDOB(s *Session, ev Event) (string, error) {
	date, err := ParseDate(ev.Text)
	if err != nil {
		return "", err
	}

	s.DateOfBirth = &date
	return transitionNext, nil
}

func applyDistrict(s *Session, ev Event) (string, error) {
	district, err := NormalizeText(ev.Text)
	if err != nil {
		return "", err
	}

	s.District = pointer.To(district)
	return transitionNext, nil
}

func applyContact(s *Session, ev Event) (string, error) {
	// Shared contacts come from the transport, not from typed text.
	if ev.Kind == KindContact {
		s.Phone = pointer.To(ev.Phone)
		return transitionNext, nil
	}

	phone, err := ValidatePhone(ev.Text)
	if err != nil {
		return "", err
	}

	s.Phone = pointer.To(phone)
	return transitionNext, nil
}

func applyAppealType(s *Session, ev Event) (string, error) {
	types := TextsFor(s.Locale).AppealTypes
	i, ok := buttonIndex(ev.Value, prefixType, len(types))
	if !ok {
		return "", errIgnored
	}

	s.AppealType = pointer.To(types[i])
	return transitionNext, nil
}

func applyContent(s *Session, ev Event) (string, error) {
	text, err := NormalizeText(ev.Text)
	if err != nil {
		return "", err
	}

	s.AppealText = pointer.To(text)
	return transitionNext, nil
}

func applyConfirm(_ *Session, ev Event) (string, error) {
	arg, _ := buttonArg(ev.Value, prefixConfirm)
	switch arg {
	case confirmYes:
		return transitionSubmit, nil
	case confirmNo:
		return transitionEdit, nil
	default:
		return "", errIgnored
	}
}
