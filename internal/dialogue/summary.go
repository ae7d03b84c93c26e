package dialogue

import (
	"strings"

	"github.com/AlekSi/pointer"

	"github.com/sayyorqabul/appealbot/internal/appeal"
)

// Summary renders the collected answers with bilingual labels. Only the
// language line depends on loc.
func Summary(loc appeal.Locale, s *Session) string {
	mode := "Online"
	if pointer.Get(s.Mode) == appeal.ModeInPerson {
		mode = "Offline"
	}

	var b strings.Builder
	line := func(label, value string) {
		b.WriteString("\n— ")
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(value)
	}

	line("Til/Язык", TextsFor(loc).LanguageName)
	line("Hudud/Регион", pointer.GetString(s.Region))
	line("Shakl/Формат", mode)
	line("F.I.Sh/Ф.И.О.", pointer.GetString(s.FullName))
	line("Tug'ilgan sana/Дата рождения", s.dateOfBirth())
	line("Tuman/Rayon", pointer.GetString(s.District))
	line("Telefon/Телефон", pointer.GetString(s.Phone))
	if s.AppealType != nil {
		line("Murojaat turi/Тип обращения", *s.AppealType)
	}
	line("Murojaat/Обращение", pointer.GetString(s.AppealText))
	b.WriteString("\n")

	return b.String()
}
