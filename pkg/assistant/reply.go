package assistant

import (
	"strings"
	"unicode"
)

type replyKind int

const (
	replyNone replyKind = iota
	replyConfirm
	replyCancel
)

var confirmWords = map[string]bool{
	"si": true, "sí": true, "confirmar": true, "confirmo": true, "confirma": true, "ok": true,
	"vale": true, "dale": true, "adelante": true, "hazlo": true, "de acuerdo": true, "claro": true,
	"yes": true, "y": true, "yep": true, "confirm": true, "go ahead": true, "do it": true, "sure": true,
}

var cancelWords = map[string]bool{
	"no": true, "cancelar": true, "cancela": true, "cancelo": true, "olvidalo": true, "olvídalo": true,
	"déjalo": true, "dejalo": true, "cancel": true, "nope": true, "never mind": true, "nevermind": true,
	"stop": true, "n": true,
}

// classifyReply reconhece respostas curtas de confirmação ou cancelamento
func classifyReply(text string) replyKind {
	s := strings.ToLower(strings.TrimFunc(strings.TrimSpace(text), func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	}))
	s = strings.Join(strings.Fields(s), " ")
	switch {
	case confirmWords[s]:
		return replyConfirm
	case cancelWords[s]:
		return replyCancel
	}
	return replyNone
}
