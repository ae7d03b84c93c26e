package dialogue

import (
	"errors"
	"strconv"

	"github.com/sayyorqabul/appealbot/internal/appeal"
)

type Button struct {
	Label string
	Value string
}

// PromptOptions describe the keyboard attached to a prompt. Buttons are
// rendered one per row.
type PromptOptions struct {
	Buttons []Button
	// ContactButton, when set, is the label of a one-tap "share my phone"
	// reply button.
	ContactButton  string
	RemoveKeyboard bool
}

func promptFor(state string, s *Session) (string, *PromptOptions) {
	t := TextsFor(s.Locale)

	switch state {
	case StateLang:
		uz, ru := TextsFor(appeal.LocaleUz), TextsFor(appeal.LocaleRu)
		text := uz.Welcome + "\n\n" + ru.Welcome + "\n\n" + uz.ChooseLanguage + " / " + ru.ChooseLanguage
		return text, &PromptOptions{Buttons: []Button{
			{Label: uz.LanguageName + " " + uz.Flag, Value: buttonValue(prefixLang, string(appeal.LocaleUz))},
			{Label: ru.LanguageName + " " + ru.Flag, Value: buttonValue(prefixLang, string(appeal.LocaleRu))},
		}}

	case StateRegion:
		return t.Prompts.Region, &PromptOptions{Buttons: indexedButtons(t.Regions, prefixRegion)}

	case StateMode:
		return t.Prompts.Mode, &PromptOptions{Buttons: []Button{
			{Label: t.Buttons.ModeOffline, Value: buttonValue(prefixMode, string(appeal.ModeInPerson))},
			{Label: t.Buttons.ModeOnline, Value: buttonValue(prefixMode, string(appeal.ModeRemote))},
		}}

	case StateName:
		return t.Prompts.Name, nil

	case StateDOB:
		return t.Prompts.DOB, nil

	case StateDistrict:
		return t.Prompts.District, nil

	case StateContact:
		return t.Prompts.Contact, &PromptOptions{ContactButton: t.Buttons.ShareContact}

	case StateAppealType:
		return t.Prompts.AppealType, &PromptOptions{Buttons: indexedButtons(t.AppealTypes, prefixType)}

	case StateContent:
		return t.Prompts.Content, &PromptOptions{RemoveKeyboard: true}

	case StateConfirm:
		return t.Prompts.Confirm + "\n" + Summary(s.Locale, s), &PromptOptions{Buttons: []Button{
			{Label: t.Buttons.Yes, Value: buttonValue(prefixConfirm, confirmYes)},
			{Label: t.Buttons.No, Value: buttonValue(prefixConfirm, confirmNo)},
		}}
	}

	return "", nil
}

func indexedButtons(labels []string, prefix string) []Button {
	buttons := make([]Button, len(labels))
	for i, label := range labels {
		buttons[i] = Button{Label: label, Value: buttonValue(prefix, strconv.Itoa(i))}
	}

	return buttons
}

func errorLine(t *Texts, err error) string {
	switch {
	case errors.Is(err, ErrInvalidDate):
		return t.Errors.DOB
	case errors.Is(err, ErrInvalidPhone):
		return t.Errors.Phone
	default:
		return t.Errors.Empty
	}
}
