package services

import (
	"strings"
	"unicode/utf8"
)

// Intent is the symbolic classification of a message's purpose
type Intent string

const (
	IntentGreeting Intent = "saudacao"
	IntentHelp     Intent = "ajuda"
	IntentBook     Intent = "reserva"
	IntentPay      Intent = "pagar"
	IntentStatus   Intent = "status"
	IntentCancel   Intent = "cancelar"
	IntentSupport  Intent = "suporte"
	IntentContinue Intent = "continuar"
	IntentNone     Intent = ""
)

// intentRule binds an intent to its trigger words. Rules are evaluated in
// declared order and the first trigger hit wins; several triggers overlap
// between rules ("reserva" is also how customers phrase a status question),
// so the order here is load-bearing. Don't sort it.
type intentRule struct {
	intent   Intent
	triggers []string
}

var intentRules = []intentRule{
	{IntentGreeting, []string{"oi", "ola", "olá", "hey", "opa", "eai"}},
	{IntentHelp, []string{"ajuda", "socorro", "opções", "opcoes", "comandos", "menu"}},
	{IntentBook, []string{"reserva", "reservar", "agendar", "viagem", "passagem", "transfer"}},
	{IntentPay, []string{"pagar", "pagamento", "pague", "comprar", "pix"}},
	{IntentStatus, []string{"status", "situação", "situacao", "verificar", "consulta", "consultar"}},
	{IntentCancel, []string{"cancelar", "desmarcar", "anular"}},
	{IntentSupport, []string{"suporte", "atendente", "humano", "atendimento"}},
	{IntentContinue, []string{"continuar", "prosseguir", "voltar"}},
}

// Day-period greetings contain words that also show up in other trigger sets
// ("boa" in "boa viagem"), so they are matched as whole phrases first.
var greetingPhrases = []string{"bom dia", "boa tarde", "boa noite"}

// Exact greeting tokens for very short messages. A bare "oi" carries no other
// keyword, and truncated greetings ("olá" cut to "ol") would otherwise fall
// through to IntentNone.
var shortGreetings = map[string]bool{
	"oi":  true,
	"ola": true,
	"olá": true,
	"opa": true,
	"eai": true,
	"oie": true,
}

// Classify maps raw message text to an intent by ordered keyword matching.
// Pure function: no side effects, deterministic for a fixed rule table.
func Classify(text string) Intent {
	msg := strings.ToLower(strings.TrimSpace(text))
	if msg == "" {
		return IntentNone
	}

	for _, phrase := range greetingPhrases {
		if strings.Contains(msg, phrase) {
			return IntentGreeting
		}
	}

	if utf8.RuneCountInString(msg) <= 4 && shortGreetings[msg] {
		return IntentGreeting
	}

	tokens := strings.Fields(msg)
	for _, rule := range intentRules {
		for _, trigger := range rule.triggers {
			for _, token := range tokens {
				if strings.Trim(token, ".,!?*") == trigger {
					return rule.intent
				}
			}
		}
	}

	return IntentNone
}
