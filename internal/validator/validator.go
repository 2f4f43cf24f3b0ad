// Package validator classifies chatbot replies against per-turn expected
// behaviors. It is a heuristic safety net: true answer quality is judged by
// the conversation-level metrics, so every check here errs on the lenient
// side. All functions are pure.
package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/callcenter112/chatbench/internal/chat"
)

// minReplyRunes is the weakest pass signal: the bot said something
// non-trivial.
const minReplyRunes = 10

// Kind enumerates the expected-behavior variants a criterion can map to.
type Kind int

const (
	// KindNonTrivial passes when the reply exceeds a minimal length.
	KindNonTrivial Kind = iota
	// KindDetectsEmergency passes when the reply names an emergency type
	// or structured metadata carries one.
	KindDetectsEmergency
	// KindAsksFor passes when the reply asks the caller for information.
	KindAsksFor
	// KindExtracts passes when extraction metadata is present or the
	// reply is non-empty.
	KindExtracts
	// KindCreatesTicket passes when the reply carries a ticket id or the
	// explicit create-ticket flag.
	KindCreatesTicket
	// KindShowsConfirmation passes when the reply shows a confirmation
	// summary.
	KindShowsConfirmation
	// KindNotAsksPhone passes when phone-asking phrasing is absent.
	KindNotAsksPhone
)

// Field narrows KindAsksFor to a specific piece of information.
type Field string

const (
	FieldAny     Field = ""
	FieldAddress Field = "address"
	FieldPhone   Field = "phone"
	FieldPeople  Field = "people"
)

// Behavior is one parsed validation criterion for a turn.
type Behavior struct {
	Kind      Kind
	Field     Field
	Criterion string // original free-text form, echoed into results
}

// Canonical keyword tables, matched against diacritic-folded text.
var (
	emergencyKeywords = []string{
		"cháy", "cứu hỏa", "hỏa hoạn", "fire",
		"y tế", "cấp cứu", "tai nạn", "medical",
		"an ninh", "công an", "security",
	}
	askKeywords = []string{
		"cho tôi", "vui lòng", "cung cấp",
		"số điện thoại", "địa chỉ", "bao nhiêu người",
	}
	addressKeywords      = []string{"địa chỉ", "ở đâu", "address"}
	phoneKeywords        = []string{"số điện thoại", "liên hệ"}
	peopleKeywords       = []string{"bao nhiêu người", "mấy người"}
	confirmationKeywords = []string{"xác nhận", "confirmation", "📋"}
)

// Parse maps a free-text validation criterion to a Behavior. Criteria
// authored outside the corpus generator go through the same dispatch, so
// the substring rules stay in one place.
func Parse(criterion string) Behavior {
	lower := strings.ToLower(criterion)
	b := Behavior{Kind: KindNonTrivial, Criterion: criterion}

	switch {
	case strings.Contains(lower, "should not ask for phone"):
		b.Kind = KindNotAsksPhone
	case strings.Contains(lower, "should detect"):
		b.Kind = KindDetectsEmergency
	case strings.Contains(lower, "should ask for"):
		b.Kind = KindAsksFor
		b.Field = askField(lower)
	case strings.Contains(lower, "should extract"), strings.Contains(lower, "should validate"):
		b.Kind = KindExtracts
	case strings.Contains(lower, "should create ticket"):
		b.Kind = KindCreatesTicket
	case strings.Contains(lower, "should show confirmation"):
		b.Kind = KindShowsConfirmation
	}
	return b
}

func askField(lowerCriterion string) Field {
	folded := Fold(lowerCriterion)
	switch {
	case containsAny(folded, []string{"địa chỉ", "location", "address"}):
		return FieldAddress
	case containsAny(folded, []string{"điện thoại", "phone"}):
		return FieldPhone
	case containsAny(folded, []string{"người", "people"}):
		return FieldPeople
	default:
		return FieldAny
	}
}

// Check classifies a reply against one behavior.
func Check(b Behavior, reply chat.Reply) bool {
	text := reply.Data.Response
	folded := Fold(text)

	switch b.Kind {
	case KindDetectsEmergency:
		if containsAny(folded, emergencyKeywords) {
			return true
		}
		return hasEmergencyTypes(reply.Data.TicketInfo)
	case KindAsksFor:
		switch b.Field {
		case FieldAddress:
			return containsAny(folded, addressKeywords) || containsAny(folded, askKeywords)
		case FieldPhone:
			return containsAny(folded, phoneKeywords) || containsAny(folded, askKeywords)
		case FieldPeople:
			return containsAny(folded, peopleKeywords) || containsAny(folded, askKeywords)
		default:
			return containsAny(folded, askKeywords)
		}
	case KindExtracts:
		return len(reply.Data.TicketInfo) > 0 || text != ""
	case KindCreatesTicket:
		return reply.Data.TicketID != "" || reply.Data.ShouldCreateTicket
	case KindShowsConfirmation:
		return containsAny(folded, confirmationKeywords) || strings.Contains(text, "📋")
	case KindNotAsksPhone:
		return !containsAny(folded, phoneKeywords)
	default:
		return utf8.RuneCountInString(text) > minReplyRunes
	}
}

// CheckAll parses and evaluates every criterion against the reply and
// returns the passed and failed criterion strings in input order.
func CheckAll(criteria []string, reply chat.Reply) (passed, failed []string) {
	for _, criterion := range criteria {
		if Check(Parse(criterion), reply) {
			passed = append(passed, criterion)
		} else {
			failed = append(failed, criterion)
		}
	}
	return passed, failed
}

func hasEmergencyTypes(ticketInfo map[string]any) bool {
	v, ok := ticketInfo["emergencyTypes"]
	if !ok {
		return false
	}
	switch types := v.(type) {
	case []any:
		return len(types) > 0
	case []string:
		return len(types) > 0
	default:
		return false
	}
}

// InferNextStep guesses which workflow phase the bot is in from its reply.
// Advisory only: used for reporting and debugging, never for pass/fail.
func InferNextStep(reply chat.Reply, ticketCreated bool) string {
	folded := Fold(reply.Data.Response)
	switch {
	case containsAny(folded, addressKeywords):
		return "location"
	case containsAny(folded, phoneKeywords):
		return "phone"
	case containsAny(folded, peopleKeywords):
		return "people"
	case containsAny(folded, confirmationKeywords):
		return "confirmation"
	case ticketCreated:
		return "complete"
	default:
		return ""
	}
}
