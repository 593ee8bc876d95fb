package rules

const (
	AgeMin = 13
	AgeMax = 19
)

func AgeAllowed(age, minAge, maxAge int) bool {
	if minAge <= 0 {
		minAge = AgeMin
	}
	if maxAge <= 0 {
		maxAge = AgeMax
	}
	return age >= minAge && age <= maxAge
}
