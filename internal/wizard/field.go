package wizard

// FieldKind identifies one of the five cron schedule fields.
type FieldKind int

const (
	Minute FieldKind = iota
	Hour
	DayOfMonth
	Month
	DayOfWeek

	numFields = 5
)

// FieldSpec describes the value domain of a field and the questions asked for it.
type FieldSpec struct {
	Kind FieldKind
	Name string
	Min  int
	Max  int

	AskEvery    string
	AskSingle   string
	AskValue    string
	AskMode     string
	AskInterval string
	AskList     string
}

var fieldSpecs = [numFields]FieldSpec{
	Minute: {
		Kind:        Minute,
		Name:        "minute",
		Min:         0,
		Max:         59,
		AskEvery:    "Will this job run every minute? y|n",
		AskSingle:   "When called, will this job run at only one minute of the hour? y|n",
		AskValue:    "What minute of the hour will it run? 0-59",
		AskMode:     "Will it run on an [i]nterval (every __ minutes)? Or at [s]pecific minutes? i|s",
		AskInterval: "Every how many minutes do you want this to run? 1-59",
		AskList:     "What minutes do you want it to run at? (comma delimited, no spaces) 0-59",
	},
	Hour: {
		Kind:        Hour,
		Name:        "hour",
		Min:         0,
		Max:         23,
		AskEvery:    "Will this job run every hour of the day? y|n",
		AskSingle:   "Will this job run at only one hour of the day? y|n",
		AskValue:    "What hour of the day will this job run? 0-23",
		AskMode:     "Will this job run in an hourly [i]nterval (every __ hours) or at [s]pecified hours of the day? i|s",
		AskInterval: "Every how many hours do you want this to run? 1-23",
		AskList:     "What specific hours of the day do you want this to run? (comma delimited, no spaces) 0-23",
	},
	DayOfMonth: {
		Kind:        DayOfMonth,
		Name:        "day of month",
		Min:         1,
		Max:         31,
		AskEvery:    "Will this job run every day of the month? y|n",
		AskSingle:   "Will this job run only once a month? y|n",
		AskValue:    "What day of the month will it run on? 1-31",
		AskMode:     "Will this job run on an [i]nterval (every __ days per month) or on [s]pecified days each month? i|s",
		AskInterval: "Every how many days per month will this run? 1-31",
		AskList:     "What specific days of the month will this job run? (comma delimited, no spaces) 1-31",
	},
	Month: {
		Kind:        Month,
		Name:        "month",
		Min:         1,
		Max:         12,
		AskEvery:    "Will this job run every month of the year? y|n",
		AskSingle:   "Will this job run only one month of the year? y|n",
		AskValue:    "What month will this run? 1-12",
		AskMode:     "Will this job run on an [i]nterval (every __ months per year) or on [s]pecific months? i|s",
		AskInterval: "Every how many months will this run? 1-12",
		AskList:     "What specific months will this job run? (comma delimited, no spaces) 1-12",
	},
	DayOfWeek: {
		Kind:        DayOfWeek,
		Name:        "day of week",
		Min:         0,
		Max:         6,
		AskEvery:    "Will this job run every day of the week? y|n",
		AskSingle:   "Does this job run only one day of the week? y|n",
		AskValue:    "What day of the week will it run? (0=Sun, 1=Mon, etc...) 0-6",
		AskMode:     "Will this job run on an [i]nterval (every <n-th> day per week) or on [s]pecific days of the week? i|s",
		AskInterval: "Every which day each week do you want this to run (every nth day)? 1-6",
		AskList:     "What days of the week will it run? (comma delimited, no spaces) 0-6",
	},
}

// Spec returns the domain and prompts for the field.
func (k FieldKind) Spec() FieldSpec {
	return fieldSpecs[k]
}

// String returns the display name of the field.
func (k FieldKind) String() string {
	if k < 0 || k >= numFields {
		return "unknown"
	}
	return fieldSpecs[k].Name
}

// Contains reports whether v lies within the field domain.
func (s FieldSpec) Contains(v int) bool {
	return v >= s.Min && v <= s.Max
}

// ContainsStep reports whether step is a usable interval for the field.
func (s FieldSpec) ContainsStep(step int) bool {
	return step >= 1 && step <= s.Max
}

// Fields lists the field kinds in canonical cron order.
func Fields() []FieldKind {
	return []FieldKind{Minute, Hour, DayOfMonth, Month, DayOfWeek}
}

// ParseFieldKind maps a field name such as "minute" or "day_of_week" to its kind.
func ParseFieldKind(name string) (FieldKind, bool) {
	switch name {
	case "minute":
		return Minute, true
	case "hour":
		return Hour, true
	case "day_of_month", "dom":
		return DayOfMonth, true
	case "month":
		return Month, true
	case "day_of_week", "dow":
		return DayOfWeek, true
	}
	return 0, false
}
