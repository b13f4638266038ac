package enums

// Lifestyle attributes used for profile data and dealbreaker filtering.

type Smoking string

const (
	SmokingNever     Smoking = "never"
	SmokingSometimes Smoking = "sometimes"
	SmokingRegularly Smoking = "regularly"
)

type Drinking string

const (
	DrinkingNever     Drinking = "never"
	DrinkingSocially  Drinking = "socially"
	DrinkingRegularly Drinking = "regularly"
)

type WantsKids string

const (
	WantsKidsNo      WantsKids = "no"
	WantsKidsOpen    WantsKids = "open"
	WantsKidsSomeday WantsKids = "someday"
	WantsKidsHasKids WantsKids = "has_kids"
)

type LookingFor string

const (
	LookingForCasual    LookingFor = "casual"
	LookingForShortTerm LookingFor = "short_term"
	LookingForLongTerm  LookingFor = "long_term"
	LookingForMarriage  LookingFor = "marriage"
	LookingForUnsure    LookingFor = "unsure"
)

type Education string

const (
	EducationHighSchool  Education = "high_school"
	EducationSomeCollege Education = "some_college"
	EducationBachelors   Education = "bachelors"
	EducationMasters     Education = "masters"
	EducationPhD         Education = "phd"
	EducationTradeSchool Education = "trade_school"
	EducationOther       Education = "other"
)
