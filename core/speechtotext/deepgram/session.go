package deepgram

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/koscakluka/tonechat/core/speechtotext"
)

type recognitionSession struct {
	conn    *websocket.Conn
	options speechtotext.RecognitionOptions
	cancel  context.CancelFunc

	// mu guards writes to conn and the lifecycle flags
	mu       sync.Mutex
	stopping bool
	ended    bool

	accumulatedTranscript string
	unendedSegment        bool
}

func (s *recognitionSession) processMessage(msg []byte) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		logger.Warn("failed to unmarshal deepgram message", "error", err)
		return
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			logger.Warn("failed to unmarshal deepgram results", "error", err)
			return
		}

		transcript := ""
		if len(msgResp.Channel.Alternatives) > 0 {
			transcript = strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
		}

		if msgResp.IsFinal {
			if transcript != "" {
				s.accumulatedTranscript = strings.TrimSpace(s.accumulatedTranscript + " " + transcript)
				s.unendedSegment = true
			}
			if msgResp.SpeechFinal {
				s.endUtterance()
			}
			return
		}

		if s.options.InterimResults && transcript != "" {
			s.options.ResultCallback(speechtotext.Result{
				Transcript: strings.TrimSpace(s.accumulatedTranscript + " " + transcript),
			})
		}

	case api.TypeUtteranceEndResponse:
		if s.unendedSegment {
			s.endUtterance()
		}

	case api.TypeSpeechStartedResponse:
		s.unendedSegment = true
	}
}

func (s *recognitionSession) endUtterance() {
	s.unendedSegment = false
	transcript := s.accumulatedTranscript
	s.accumulatedTranscript = ""
	if transcript != "" {
		s.options.ResultCallback(speechtotext.Result{Transcript: transcript, IsFinal: true})
	}
}
