package render

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// labels hold the strings for one supported display language.
type labels struct {
	title         string
	feelsLike     string
	humidity      string
	wind          string
	precipitation string
	moon          string
	moonPhases    map[string]string
	graph         string
	updated       string
	weekdays      [7]string
	shortWeekdays [7]string
	months        [12]string
	date          func(l *labels, t time.Time) string
}

var supportedLanguages = []language.Tag{
	language.English,
	language.German,
	language.French,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

var labelSets = []*labels{
	{
		title:         "%s weather",
		feelsLike:     "Feels like %s",
		humidity:      "Humidity %d%%",
		wind:          "Wind %.1f %s",
		precipitation: "Precipitation %.1f mm",
		moon:          "Moon: %s",
		moonPhases: map[string]string{
			"New Moon":        "New Moon",
			"Waxing Crescent": "Waxing Crescent",
			"First Quarter":   "First Quarter",
			"Waxing Gibbous":  "Waxing Gibbous",
			"Full Moon":       "Full Moon",
			"Waning Gibbous":  "Waning Gibbous",
			"Third Quarter":   "Third Quarter",
			"Waning Crescent": "Waning Crescent",
		},
		graph:         "Next %d h",
		updated:       "Updated at %s",
		weekdays:      [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		shortWeekdays: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		months: [12]string{"January", "February", "March", "April", "May", "June", "July",
			"August", "September", "October", "November", "December"},
		date: func(l *labels, t time.Time) string {
			return fmt.Sprintf("%s, %d %s %d", l.weekdays[t.Weekday()], t.Day(), l.months[t.Month()-1], t.Year())
		},
	},
	{
		title:         "%s Wetter",
		feelsLike:     "Gefühlt %s",
		humidity:      "Luftfeuchtigkeit %d%%",
		wind:          "Wind %.1f %s",
		precipitation: "Niederschlag %.1f mm",
		moon:          "Mond: %s",
		moonPhases: map[string]string{
			"New Moon":        "Neumond",
			"Waxing Crescent": "Zunehmende Sichel",
			"First Quarter":   "Erstes Viertel",
			"Waxing Gibbous":  "Zunehmender Mond",
			"Full Moon":       "Vollmond",
			"Waning Gibbous":  "Abnehmender Mond",
			"Third Quarter":   "Letztes Viertel",
			"Waning Crescent": "Abnehmende Sichel",
		},
		graph:         "Nächste %d Std.",
		updated:       "Aktualisiert um %s",
		weekdays:      [7]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
		shortWeekdays: [7]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"},
		months: [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli",
			"August", "September", "Oktober", "November", "Dezember"},
		date: func(l *labels, t time.Time) string {
			return fmt.Sprintf("%s, %d. %s %d", l.weekdays[t.Weekday()], t.Day(), l.months[t.Month()-1], t.Year())
		},
	},
	{
		title:         "Météo %s",
		feelsLike:     "Ressenti %s",
		humidity:      "Humidité %d %%",
		wind:          "Vent %.1f %s",
		precipitation: "Précipitations %.1f mm",
		moon:          "Lune : %s",
		moonPhases: map[string]string{
			"New Moon":        "nouvelle lune",
			"Waxing Crescent": "premier croissant",
			"First Quarter":   "premier quartier",
			"Waxing Gibbous":  "gibbeuse croissante",
			"Full Moon":       "pleine lune",
			"Waning Gibbous":  "gibbeuse décroissante",
			"Third Quarter":   "dernier quartier",
			"Waning Crescent": "dernier croissant",
		},
		graph:         "Prochaines %d h",
		updated:       "Mis à jour à %s",
		weekdays:      [7]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"},
		shortWeekdays: [7]string{"dim.", "lun.", "mar.", "mer.", "jeu.", "ven.", "sam."},
		months: [12]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet",
			"août", "septembre", "octobre", "novembre", "décembre"},
		date: func(l *labels, t time.Time) string {
			return fmt.Sprintf("%s %d %s %d", l.weekdays[t.Weekday()], t.Day(), l.months[t.Month()-1], t.Year())
		},
	},
}

// localizer formats labels and numbers for the closest supported language.
type localizer struct {
	*labels
	tag     language.Tag
	printer *message.Printer
}

func newLocalizer(lang string) *localizer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	_, idx, _ := languageMatcher.Match(tag)
	return &localizer{
		labels:  labelSets[idx],
		tag:     supportedLanguages[idx],
		printer: message.NewPrinter(supportedLanguages[idx]),
	}
}

func (l *localizer) sprintf(format string, args ...any) string {
	return l.printer.Sprintf(format, args...)
}

func (l *localizer) formatDate(t time.Time) string {
	return l.date(l.labels, t)
}

// moonPhase translates a go-moonphase phase name, keeping unknown names as-is.
func (l *localizer) moonPhase(name string) string {
	if localized, ok := l.moonPhases[name]; ok {
		return localized
	}
	return name
}
