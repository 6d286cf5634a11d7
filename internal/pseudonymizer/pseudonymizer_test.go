package pseudonymizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPseudonymizePassesCleanTextThrough(t *testing.T) {
	inputs := []string{
		"I had a rough day at school today",
		"feeling a bit better after lunch",
		"can we talk about my exam stress?",
	}
	for _, text := range inputs {
		assert.Equal(t, text, Pseudonymize(text, false))
	}
}

func TestPseudonymizeConsentBypass(t *testing.T) {
	text := "my email is sam@example.com and my name is Sam"
	assert.Equal(t, text, Pseudonymize(text, true))
}

func TestPseudonymizeEmail(t *testing.T) {
	got := Pseudonymize("reach me at sam.lee+school@example.co.uk thanks", false)
	assert.Equal(t, "reach me at [EMAIL] thanks", got)
}

func TestPseudonymizePhone(t *testing.T) {
	assert.Equal(t, "call me on [PHONE]", Pseudonymize("call me on 052-123-4567", false))
	assert.Equal(t, "call [PHONE] later", Pseudonymize("call +1 555 123 4567 later", false))
}

func TestPseudonymizeNationalID(t *testing.T) {
	assert.Equal(t, "my id is [ID]", Pseudonymize("my id is 123456789", false))
	assert.Equal(t, "ssn [ID] ok", Pseudonymize("ssn 123-45-6789 ok", false))
}

func TestPseudonymizeNameDisclosure(t *testing.T) {
	assert.Equal(t, "hi, my name is [NAME] and I like math",
		Pseudonymize("hi, my name is Dana and I like math", false))
	assert.Equal(t, "I'm [NAME] from class 9b",
		Pseudonymize("I'm Omer from class 9b", false))
}

func TestPseudonymizeKeepsLowercaseImPhrases(t *testing.T) {
	// "I'm tired" is a feeling, not a name disclosure.
	text := "I'm tired and I'm stressed"
	assert.Equal(t, text, Pseudonymize(text, false))
}

func TestPseudonymizeMultiplePatterns(t *testing.T) {
	got := Pseudonymize("my name is Lior, email lior@mail.com, phone 050-123-4567", false)
	assert.Equal(t, "my name is [NAME], email [EMAIL], phone [PHONE]", got)
}
