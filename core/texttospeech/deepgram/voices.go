package deepgram

import (
	"slices"
	"strings"
)

type Voice string

const (
	VoiceThalia    Voice = "aura-2-thalia-en"
	VoiceAndromeda Voice = "aura-2-andromeda-en"
	VoiceHelena    Voice = "aura-2-helena-en"
	VoiceApollo    Voice = "aura-2-apollo-en"
	VoiceArcas     Voice = "aura-2-arcas-en"
	VoiceAries     Voice = "aura-2-aries-en"

	defaultVoice = VoiceThalia
)

func GetAvailableVoices() []Voice {
	return []Voice{VoiceThalia, VoiceAndromeda, VoiceHelena, VoiceApollo, VoiceArcas, VoiceAries}
}

// language returns the language part of the voice model name, "en" for
// "aura-2-thalia-en".
func (v Voice) language() string {
	if i := strings.LastIndex(string(v), "-"); i >= 0 {
		return string(v)[i+1:]
	}
	return ""
}

// supportsLocale reports whether the voice can speak the BCP 47 locale.
func (v Voice) supportsLocale(locale string) bool {
	language, _, _ := strings.Cut(locale, "-")
	return strings.EqualFold(language, v.language())
}

func isKnownVoice(voice Voice) bool {
	return slices.Contains(GetAvailableVoices(), voice)
}
