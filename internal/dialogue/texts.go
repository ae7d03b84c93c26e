package dialogue

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sayyorqabul/appealbot/internal/appeal"
)

const (
	regionCount     = 14
	appealTypeCount = 8
)

//go:embed texts/*.yaml
var textFiles embed.FS

type Texts struct {
	LanguageName   string `yaml:"language_name"`
	Flag           string `yaml:"flag"`
	ChooseLanguage string `yaml:"choose_language"`
	Welcome        string `yaml:"welcome"`

	Prompts struct {
		Region     string `yaml:"region"`
		Mode       string `yaml:"mode"`
		Name       string `yaml:"name"`
		DOB        string `yaml:"dob"`
		District   string `yaml:"district"`
		Contact    string `yaml:"contact"`
		AppealType string `yaml:"appeal_type"`
		Content    string `yaml:"content"`
		Confirm    string `yaml:"confirm"`
	} `yaml:"prompts"`

	Buttons struct {
		ModeOffline  string `yaml:"mode_offline"`
		ModeOnline   string `yaml:"mode_online"`
		ShareContact string `yaml:"share_contact"`
		Yes          string `yaml:"yes"`
		No           string `yaml:"no"`
	} `yaml:"buttons"`

	Errors struct {
		DOB   string `yaml:"dob"`
		Phone string `yaml:"phone"`
		Empty string `yaml:"empty"`
	} `yaml:"errors"`

	Thanks    string `yaml:"thanks"`
	Cancelled string `yaml:"cancelled"`
	NewAppeal string `yaml:"new_appeal"`

	Regions     []string `yaml:"regions"`
	AppealTypes []string `yaml:"appeal_types"`
}

var bundles = mustLoadTexts()

func mustLoadTexts() map[appeal.Locale]*Texts {
	out := make(map[appeal.Locale]*Texts, 2)
	for _, loc := range []appeal.Locale{appeal.LocaleUz, appeal.LocaleRu} {
		t, err := loadTexts(loc)
		if err != nil {
			panic(err)
		}
		out[loc] = t
	}

	return out
}

func loadTexts(loc appeal.Locale) (*Texts, error) {
	raw, err := textFiles.ReadFile("texts/" + string(loc) + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("dialogue.loadTexts: %w", err)
	}

	var t Texts
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("dialogue.loadTexts: %s: %w", loc, err)
	}

	if len(t.Regions) != regionCount {
		return nil, fmt.Errorf("dialogue.loadTexts: %s: expected %d regions, got %d", loc, regionCount, len(t.Regions))
	}

	if len(t.AppealTypes) != appealTypeCount {
		return nil, fmt.Errorf("dialogue.loadTexts: %s: expected %d appeal types, got %d", loc, appealTypeCount, len(t.AppealTypes))
	}

	return &t, nil
}

// TextsFor falls back to the primary locale when loc is unset.
func TextsFor(loc appeal.Locale) *Texts {
	if t, ok := bundles[loc]; ok {
		return t
	}

	return bundles[appeal.LocaleUz]
}
