package httpapi

import "github.com/invopop/jsonschema"

// Contract describes the JSON bodies exchanged with the endpoint, for
// whoever implements it.
type Contract struct {
	Method   string             `json:"method"`
	Path     string             `json:"path"`
	Request  *jsonschema.Schema `json:"request"`
	Response *jsonschema.Schema `json:"response"`
}

func GetContract() Contract {
	reflector := jsonschema.Reflector{DoNotReference: true}
	return Contract{
		Method:   "POST",
		Path:     processSpeechPath,
		Request:  reflector.Reflect(&requestBody{}),
		Response: reflector.Reflect(&responseBody{}),
	}
}
