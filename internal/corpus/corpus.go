// Package corpus generates the labeled scenario corpus the harness drives
// against the chatbot: multi-turn conversation scripts for each workflow
// family, plus single-turn cases. Generation is deterministic for a given
// seed so re-runs produce identical corpora.
package corpus

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/callcenter112/chatbench/internal/scenario"
)

// Generator builds scenario corpora from a seeded random source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator seeded for reproducible output.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

type address struct {
	Full     string
	Address  string
	Ward     string
	District string
	City     string
}

func (a address) asMap() map[string]any {
	return map[string]any{
		"full":     a.Full,
		"address":  a.Address,
		"ward":     a.Ward,
		"district": a.District,
		"city":     a.City,
	}
}

func (g *Generator) phone() string {
	prefix := validPhonePrefixes[g.rng.Intn(len(validPhonePrefixes))]
	return fmt.Sprintf("%s%07d", prefix, 1000000+g.rng.Intn(9000000))
}

func (g *Generator) address() address {
	street := streets[g.rng.Intn(len(streets))]
	number := 1 + g.rng.Intn(500)
	ward := fmt.Sprintf("Phường %d", 1+g.rng.Intn(15))
	district := hcmcDistricts[g.rng.Intn(len(hcmcDistricts))]
	return address{
		Full:     fmt.Sprintf("%d %s, %s, %s, TP.HCM", number, street, ward, district),
		Address:  fmt.Sprintf("%d %s", number, street),
		Ward:     ward,
		District: district,
		City:     "Thành phố Hồ Chí Minh",
	}
}

// GenerateAll builds the complete multi-turn corpus across all families.
func (g *Generator) GenerateAll() []*scenario.Scenario {
	var all []*scenario.Scenario
	all = append(all, g.FireFlows()...)
	all = append(all, g.MedicalFlows()...)
	all = append(all, g.SecurityFlows()...)
	all = append(all, g.CorrectionFlows()...)
	all = append(all, g.AuthenticatedFlows()...)
	all = append(all, g.EdgeCaseFlows()...)
	return all
}

// standardTail produces the address -> phone -> people -> confirm turns
// shared by the straightforward emergency flows.
func standardTail(addr address, phone, peopleMessage string, expectedPeople map[string]any, confirmMessage string) []scenario.Turn {
	return []scenario.Turn{
		{
			UserMessage:        addr.Full,
			ExpectedActions:    []string{"extract_location", "ask_phone"},
			ExpectedExtract:    map[string]any{"location": addr.asMap()},
			ExpectedNextStep:   "phone",
			ValidationCriteria: []string{"Should extract complete address", "Should ask for phone number"},
		},
		{
			UserMessage:        phone,
			ExpectedActions:    []string{"validate_phone", "ask_people"},
			ExpectedExtract:    map[string]any{"phone": phone},
			ExpectedNextStep:   "people",
			ValidationCriteria: []string{"Should validate phone number", "Should ask for number of affected people"},
		},
		{
			UserMessage:        peopleMessage,
			ExpectedActions:    []string{"extract_people_count", "show_confirmation"},
			ExpectedExtract:    map[string]any{"affectedPeople": expectedPeople},
			ExpectedNextStep:   "confirmation",
			ValidationCriteria: []string{"Should extract affected people correctly", "Should show confirmation summary"},
		},
		{
			UserMessage:        confirmMessage,
			ExpectedActions:    []string{"create_ticket"},
			ExpectedExtract:    map[string]any{"userConfirmed": true},
			ExpectedNextStep:   "complete",
			ValidationCriteria: []string{"Should create ticket"},
		},
	}
}

// FireFlows generates the fire emergency family.
func (g *Generator) FireFlows() []*scenario.Scenario {
	var cases []*scenario.Scenario

	addr := g.address()
	phone := g.phone()
	cases = append(cases, &scenario.Scenario{
		ID:          "MULTI_FIRE_001",
		Name:        "Complete Fire Emergency Flow",
		Description: "Standard fire emergency from report to ticket creation",
		Category:    scenario.CategoryFire,
		Turns: append([]scenario.Turn{{
			UserMessage:      "Cháy nhà! Nhà tôi đang cháy lớn lắm!",
			ExpectedActions:  []string{"detect_emergency_type", "provide_first_aid"},
			ExpectedExtract:  map[string]any{"emergencyTypes": []string{"FIRE_RESCUE"}},
			ExpectedNextStep: "first_aid_then_location",
			ValidationCriteria: []string{
				"Should detect FIRE_RESCUE emergency",
				"Should ask for location",
			},
		}}, standardTail(addr, phone, "3 người trong nhà", map[string]any{"total": 3}, "Đúng rồi, xác nhận")...),
		ExpectedFinalState: map[string]any{
			"emergencyTypes": []string{"FIRE_RESCUE"},
			"location":       addr.asMap(),
			"phone":          phone,
			"affectedPeople": map[string]any{"total": 3},
			"ticketCreated":  true,
		},
		ShouldCreateTicket: true,
		Metadata:           map[string]any{"emergency_type": "FIRE_RESCUE", "complexity": "standard"},
	})

	addr = g.address()
	phone = g.phone()
	cases = append(cases, &scenario.Scenario{
		ID:          "MULTI_FIRE_002",
		Name:        "Fire with Trapped People",
		Description: "Fire emergency with people trapped inside",
		Category:    scenario.CategoryFire,
		Turns: append([]scenario.Turn{{
			UserMessage:      "Cháy lớn! Có người mắc kẹt trong nhà không ra được!",
			ExpectedActions:  []string{"detect_emergency_type", "detect_multiple_types", "provide_first_aid"},
			ExpectedExtract:  map[string]any{"emergencyTypes": []string{"FIRE_RESCUE", "MEDICAL"}},
			ExpectedNextStep: "first_aid_then_location",
			ValidationCriteria: []string{
				"Should detect FIRE_RESCUE and MEDICAL",
				"Should ask for location",
			},
		}}, standardTail(addr, "Số tôi là "+phone, "5 người, 2 người mắc kẹt tầng 3", map[string]any{"total": 5}, "Xác nhận")...),
		ExpectedFinalState: map[string]any{
			"emergencyTypes": []string{"FIRE_RESCUE", "MEDICAL"},
			"ticketCreated":  true,
			"priority":       "CRITICAL",
		},
		ShouldCreateTicket: true,
		Metadata:           map[string]any{"emergency_type": "FIRE_RESCUE", "complexity": "urgent", "trapped_people": true},
	})

	addr = g.address()
	phone = g.phone()
	cases = append(cases, &scenario.Scenario{
		ID:          "MULTI_FIRE_003",
		Name:        "Fire with Partial Location",
		Description: "Fire emergency where location needs clarification",
		Category:    scenario.CategoryFire,
		Turns: append([]scenario.Turn{
			{
				UserMessage:        "Có cháy ở đây!",
				ExpectedActions:    []string{"detect_emergency_type", "ask_details"},
				ExpectedExtract:    map[string]any{"emergencyTypes": []string{"FIRE_RESCUE"}},
				ExpectedNextStep:   "first_aid_then_location",
				ValidationCriteria: []string{"Should detect fire", "Should ask for location"},
			},
			{
				UserMessage:        "Gần chợ Bến Thành",
				ExpectedActions:    []string{"extract_partial_location", "ask_clarification"},
				ExpectedExtract:    map[string]any{"location": map[string]any{"landmarks": "Gần chợ Bến Thành"}},
				ExpectedNextStep:   "location_clarification",
				ValidationCriteria: []string{"Should extract landmark", "Should ask for địa chỉ"},
			},
		}, standardTail(addr, phone, "1 người", map[string]any{"total": 1}, "OK")...),
		ExpectedFinalState: map[string]any{"ticketCreated": true},
		ShouldCreateTicket: true,
		Metadata:           map[string]any{"requires_clarification": true},
	})

	for i, description := range fireVariations {
		addr := g.address()
		phone := g.phone()
		count := 1 + g.rng.Intn(10)
		cases = append(cases, &scenario.Scenario{
			ID:          fmt.Sprintf("MULTI_FIRE_%03d", i+4),
			Name:        fmt.Sprintf("Fire Emergency Variation %d", i+1),
			Description: description,
			Category:    scenario.CategoryFire,
			Turns: append([]scenario.Turn{{
				UserMessage:        description,
				ExpectedActions:    []string{"detect_emergency_type"},
				ExpectedExtract:    map[string]any{"emergencyTypes": []string{"FIRE_RESCUE"}},
				ExpectedNextStep:   "first_aid_then_location",
				ValidationCriteria: []string{"Should detect FIRE_RESCUE"},
			}}, standardTail(addr, phone, fmt.Sprintf("%d người", count), map[string]any{"total": count}, "Đúng")...),
			ExpectedFinalState: map[string]any{"ticketCreated": true},
			ShouldCreateTicket: true,
			Metadata:           map[string]any{"variation": i + 1},
		})
	}
	return cases
}

// MedicalFlows generates the medical emergency family.
func (g *Generator) MedicalFlows() []*scenario.Scenario {
	cases := make([]*scenario.Scenario, 0, len(medicalScripts))
	for i, script := range medicalScripts {
		addr := g.address()
		phone := g.phone()
		name := script.initial
		if len([]rune(name)) > 30 {
			name = string([]rune(name)[:30]) + "..."
		}
		cases = append(cases, &scenario.Scenario{
			ID:          fmt.Sprintf("MULTI_MED_%03d", i+1),
			Name:        "Medical Emergency: " + name,
			Description: script.initial,
			Category:    scenario.CategoryMedical,
			Turns: append([]scenario.Turn{{
				UserMessage:      script.initial,
				ExpectedActions:  []string{"detect_emergency_type", "provide_first_aid"},
				ExpectedExtract:  map[string]any{"emergencyTypes": script.types},
				ExpectedNextStep: "first_aid_then_location",
				ValidationCriteria: []string{
					"Should detect MEDICAL emergency",
					"Should provide first aid guidance",
				},
			}}, standardTail(addr, phone, script.peopleMessage, script.expectedPeople, "Xác nhận")...),
			ExpectedFinalState: map[string]any{
				"emergencyTypes": script.types,
				"ticketCreated":  true,
				"supportRequired": map[string]any{
					"ambulance": true,
				},
			},
			ShouldCreateTicket: true,
			Metadata:           map[string]any{"scenario": i + 1, "first_aid_phrases": script.firstAidPhrases},
		})
	}
	return cases
}

// SecurityFlows generates the security emergency family.
func (g *Generator) SecurityFlows() []*scenario.Scenario {
	cases := make([]*scenario.Scenario, 0, len(securityScripts))
	for i, script := range securityScripts {
		addr := g.address()
		phone := g.phone()
		count := 1 + g.rng.Intn(5)
		name := script.initial
		if len([]rune(name)) > 30 {
			name = string([]rune(name)[:30]) + "..."
		}
		cases = append(cases, &scenario.Scenario{
			ID:          fmt.Sprintf("MULTI_SEC_%03d", i+1),
			Name:        "Security Emergency: " + name,
			Description: script.initial,
			Category:    scenario.CategorySecurity,
			Turns: append([]scenario.Turn{{
				UserMessage:      script.initial,
				ExpectedActions:  []string{"detect_emergency_type", "provide_safety_guidance"},
				ExpectedExtract:  map[string]any{"emergencyTypes": script.types},
				ExpectedNextStep: "location",
				ValidationCriteria: []string{
					"Should detect SECURITY emergency",
					"Should ask for location",
				},
			}}, standardTail(addr, phone, fmt.Sprintf("%d người", count), map[string]any{"total": count}, "Đúng, nhanh lên!")...),
			ExpectedFinalState: map[string]any{
				"emergencyTypes": script.types,
				"ticketCreated":  true,
				"supportRequired": map[string]any{
					"police": true,
				},
			},
			ShouldCreateTicket: true,
			Metadata:           map[string]any{"urgency": script.urgency},
		})
	}
	return cases
}

// CorrectionFlows generates scripts where the caller corrects information
// mid-conversation.
func (g *Generator) CorrectionFlows() []*scenario.Scenario {
	var cases []*scenario.Scenario

	addr1, addr2 := g.address(), g.address()
	phone := g.phone()
	cases = append(cases, g.correctionCase("MULTI_CORR_001", "User Corrects Address",
		"User provides wrong address then corrects it",
		"Có cháy nhà!", []string{"FIRE_RESCUE"}, addr1, phone, "2 người", 2,
		fmt.Sprintf("Không, sai địa chỉ rồi. Địa chỉ đúng là %s", addr2.Full),
		map[string]any{"location": addr2.asMap(), "isCorrection": true},
		[]string{"Should detect correction", "Should show confirmation with updated address"},
		map[string]any{"location": addr2.asMap(), "ticketCreated": true},
		"address"))

	addr := g.address()
	phone1, phone2 := g.phone(), g.phone()
	cases = append(cases, g.correctionCase("MULTI_CORR_002", "User Corrects Phone",
		"User provides wrong phone then corrects it",
		"Tai nạn giao thông!", []string{"MEDICAL"}, addr, phone1, "3 người", 3,
		fmt.Sprintf("Xin lỗi, số điện thoại đúng là %s", phone2),
		map[string]any{"phone": phone2, "isCorrection": true},
		[]string{"Should detect correction", "Should show confirmation with updated phone"},
		map[string]any{"phone": phone2, "ticketCreated": true},
		"phone"))

	addr = g.address()
	phone = g.phone()
	cases = append(cases, g.correctionCase("MULTI_CORR_003", "User Corrects People Count",
		"User corrects number of affected people",
		"Có cháy ở nhà hàng xóm!", []string{"FIRE_RESCUE"}, addr, phone, "2 người", 2,
		"Không, thực ra có 5 người, tôi đếm nhầm",
		map[string]any{"affectedPeople": map[string]any{"total": 5}, "isCorrection": true},
		[]string{"Should detect correction", "Should show confirmation with 5 people"},
		map[string]any{"affectedPeople": map[string]any{"total": 5}, "ticketCreated": true},
		"people_count"))

	addr1, addr2 = g.address(), g.address()
	phone1, phone2 = g.phone(), g.phone()
	cases = append(cases, g.correctionCase("MULTI_CORR_004", "Multiple Corrections",
		"User makes multiple corrections during confirmation",
		"Có vụ đánh nhau!", []string{"SECURITY"}, addr1, phone1, "3 người", 3,
		fmt.Sprintf("Sai hết rồi! Địa chỉ là %s, SĐT là %s", addr2.Address, phone2),
		map[string]any{"location": map[string]any{"address": addr2.Address}, "phone": phone2},
		[]string{"Should detect correction", "Should show confirmation with updated fields"},
		map[string]any{"ticketCreated": true},
		"multiple"))

	return cases
}

func (g *Generator) correctionCase(id, name, description, initial string, emergencyTypes []string, addr address, phone, peopleMessage string, peopleCount int, correctionMessage string, correctionExtract map[string]any, correctionCriteria []string, finalState map[string]any, correctionType string) *scenario.Scenario {
	turns := append([]scenario.Turn{{
		UserMessage:        initial,
		ExpectedActions:    []string{"detect_emergency_type"},
		ExpectedExtract:    map[string]any{"emergencyTypes": emergencyTypes},
		ExpectedNextStep:   "first_aid_then_location",
		ValidationCriteria: []string{"Should detect emergency type"},
	}}, standardTail(addr, phone, peopleMessage, map[string]any{"total": peopleCount}, "placeholder")...)

	// Replace the trailing confirm turn with correction -> confirm.
	turns = turns[:len(turns)-1]
	turns = append(turns,
		scenario.Turn{
			UserMessage:        correctionMessage,
			ExpectedActions:    []string{"detect_correction", "show_confirmation"},
			ExpectedExtract:    correctionExtract,
			ExpectedNextStep:   "confirmation",
			ValidationCriteria: correctionCriteria,
		},
		scenario.Turn{
			UserMessage:        "Đúng rồi, xác nhận",
			ExpectedActions:    []string{"create_ticket"},
			ExpectedExtract:    map[string]any{"userConfirmed": true},
			ExpectedNextStep:   "complete",
			ValidationCriteria: []string{"Should create ticket"},
		},
	)

	return &scenario.Scenario{
		ID:                 id,
		Name:               name,
		Description:        description,
		Category:           scenario.CategoryCorrection,
		Turns:              turns,
		ExpectedFinalState: finalState,
		ShouldCreateTicket: true,
		Metadata:           map[string]any{"correction_type": correctionType},
	}
}

// AuthenticatedFlows generates scripts for signed-in callers with a saved
// phone number; the phone collection step must be skipped.
func (g *Generator) AuthenticatedFlows() []*scenario.Scenario {
	cases := make([]*scenario.Scenario, 0, len(authenticatedEmergencies))
	for i, emergency := range authenticatedEmergencies {
		addr := g.address()
		savedPhone := g.phone()
		count := 1 + g.rng.Intn(5)
		cases = append(cases, &scenario.Scenario{
			ID:              fmt.Sprintf("MULTI_AUTH_%03d", i+1),
			Name:            fmt.Sprintf("Authenticated User Flow %d", i+1),
			Description:     "Authenticated user with saved phone: " + emergency.message,
			Category:        scenario.CategoryAuthenticated,
			IsAuthenticated: true,
			UserMemory: map[string]any{
				"savedPhone": savedPhone,
				"savedName":  fmt.Sprintf("Người dùng %d", i+1),
			},
			Turns: []scenario.Turn{
				{
					UserMessage:        emergency.message,
					ExpectedActions:    []string{"detect_emergency_type", "provide_guidance"},
					ExpectedExtract:    map[string]any{"emergencyTypes": emergency.types},
					ExpectedNextStep:   "first_aid_then_location",
					ValidationCriteria: []string{"Should detect emergency type"},
				},
				{
					UserMessage:      addr.Full,
					ExpectedActions:  []string{"extract_location", "skip_phone", "ask_people"},
					ExpectedExtract:  map[string]any{"location": addr.asMap()},
					ExpectedNextStep: "people",
					ValidationCriteria: []string{
						"Should extract location",
						"Should not ask for phone",
						"Should ask for people count",
					},
				},
				{
					UserMessage:      fmt.Sprintf("%d người", count),
					ExpectedActions:  []string{"extract_people_count", "show_confirmation"},
					ExpectedExtract:  map[string]any{"affectedPeople": map[string]any{"total": count}},
					ExpectedNextStep: "confirmation",
					ValidationCriteria: []string{
						"Should show confirmation",
					},
				},
				{
					UserMessage:        "Xác nhận",
					ExpectedActions:    []string{"create_ticket"},
					ExpectedExtract:    map[string]any{"userConfirmed": true},
					ExpectedNextStep:   "complete",
					ValidationCriteria: []string{"Should create ticket"},
				},
			},
			ExpectedFinalState: map[string]any{
				"phone":                  savedPhone,
				"ticketCreated":          true,
				"skippedPhoneCollection": true,
			},
			ShouldCreateTicket: true,
			Metadata:           map[string]any{"saved_phone": savedPhone},
		})
	}
	return cases
}

// EdgeCaseFlows generates the unusual-conversation family.
func (g *Generator) EdgeCaseFlows() []*scenario.Scenario {
	var cases []*scenario.Scenario

	addr := g.address()
	phone := g.phone()
	cases = append(cases, &scenario.Scenario{
		ID:          "MULTI_EDGE_001",
		Name:        "All Info in First Message",
		Description: "User provides all required information upfront",
		Category:    scenario.CategoryEdgeCase,
		Turns: []scenario.Turn{
			{
				UserMessage:     fmt.Sprintf("Có cháy nhà ở %s! Số tôi là %s, có 3 người trong nhà!", addr.Full, phone),
				ExpectedActions: []string{"extract_all_info", "show_confirmation"},
				ExpectedExtract: map[string]any{
					"emergencyTypes": []string{"FIRE_RESCUE"},
					"location":       addr.asMap(),
					"phone":          phone,
					"affectedPeople": map[string]any{"total": 3},
				},
				ExpectedNextStep: "confirmation",
				ValidationCriteria: []string{
					"Should extract all info from single message",
					"Should show confirmation",
				},
			},
			{
				UserMessage:        "Đúng",
				ExpectedActions:    []string{"create_ticket"},
				ExpectedExtract:    map[string]any{"userConfirmed": true},
				ExpectedNextStep:   "complete",
				ValidationCriteria: []string{"Should create ticket"},
			},
		},
		ExpectedFinalState: map[string]any{"ticketCreated": true},
		ShouldCreateTicket: true,
		Metadata:           map[string]any{"single_message_info": true},
	})

	addr = g.address()
	phone = g.phone()
	cases = append(cases, &scenario.Scenario{
		ID:          "MULTI_EDGE_002",
		Name:        "Minimal User Responses",
		Description: "User gives very brief responses",
		Category:    scenario.CategoryEdgeCase,
		Turns: []scenario.Turn{
			{
				UserMessage:        "Cháy",
				ExpectedActions:    []string{"detect_emergency_type", "ask_details"},
				ExpectedExtract:    map[string]any{"emergencyTypes": []string{"FIRE_RESCUE"}},
				ExpectedNextStep:   "first_aid_then_location",
				ValidationCriteria: []string{"Should detect FIRE_RESCUE"},
			},
			{
				UserMessage:        addr.Address,
				ExpectedActions:    []string{"extract_partial_location", "ask_more"},
				ExpectedExtract:    map[string]any{"location": map[string]any{"address": addr.Address}},
				ExpectedNextStep:   "location_clarification",
				ValidationCriteria: []string{"Should ask for địa chỉ details"},
			},
			{
				UserMessage:        fmt.Sprintf("%s, %s", addr.Ward, addr.District),
				ExpectedActions:    []string{"complete_location", "ask_phone"},
				ExpectedExtract:    map[string]any{"location": map[string]any{"ward": addr.Ward}},
				ExpectedNextStep:   "phone",
				ValidationCriteria: []string{"Should ask for phone number"},
			},
			{
				UserMessage:        phone,
				ExpectedActions:    []string{"validate_phone"},
				ExpectedExtract:    map[string]any{"phone": phone},
				ExpectedNextStep:   "people",
				ValidationCriteria: []string{"Should validate phone"},
			},
			{
				UserMessage:        "1",
				ExpectedActions:    []string{"extract_people_count"},
				ExpectedExtract:    map[string]any{"affectedPeople": map[string]any{"total": 1}},
				ExpectedNextStep:   "confirmation",
				ValidationCriteria: []string{"Should show confirmation"},
			},
			{
				UserMessage:        "ok",
				ExpectedActions:    []string{"create_ticket"},
				ExpectedExtract:    map[string]any{"userConfirmed": true},
				ExpectedNextStep:   "complete",
				ValidationCriteria: []string{"Should create ticket"},
			},
		},
		ExpectedFinalState: map[string]any{"ticketCreated": true},
		ShouldCreateTicket: true,
		Metadata:           map[string]any{"minimal_responses": true},
	})

	addr = g.address()
	validPhone := g.phone()
	cases = append(cases, &scenario.Scenario{
		ID:          "MULTI_EDGE_003",
		Name:        "Invalid Phone Then Valid",
		Description: "User provides invalid phone, then valid phone",
		Category:    scenario.CategoryEdgeCase,
		Turns: []scenario.Turn{
			{
				UserMessage:        "Có tai nạn!",
				ExpectedActions:    []string{"detect_emergency_type"},
				ExpectedExtract:    map[string]any{"emergencyTypes": []string{"MEDICAL"}},
				ExpectedNextStep:   "first_aid_then_location",
				ValidationCriteria: []string{"Should detect MEDICAL emergency"},
			},
			{
				UserMessage:        addr.Full,
				ExpectedActions:    []string{"extract_location"},
				ExpectedExtract:    map[string]any{"location": addr.asMap()},
				ExpectedNextStep:   "phone",
				ValidationCriteria: []string{"Should ask for phone number"},
			},
			{
				UserMessage:      "0123456789",
				ExpectedActions:  []string{"reject_phone", "ask_again"},
				ExpectedExtract:  map[string]any{"phoneValid": false},
				ExpectedNextStep: "phone",
				ValidationCriteria: []string{
					"Should ask for phone number",
				},
			},
			{
				UserMessage:        validPhone,
				ExpectedActions:    []string{"validate_phone"},
				ExpectedExtract:    map[string]any{"phone": validPhone, "phoneValid": true},
				ExpectedNextStep:   "people",
				ValidationCriteria: []string{"Should validate phone"},
			},
			{
				UserMessage:        "2 người",
				ExpectedActions:    []string{"extract_people_count"},
				ExpectedExtract:    map[string]any{"affectedPeople": map[string]any{"total": 2}},
				ExpectedNextStep:   "confirmation",
				ValidationCriteria: []string{"Should show confirmation"},
			},
			{
				UserMessage:        "Xác nhận",
				ExpectedActions:    []string{"create_ticket"},
				ExpectedExtract:    map[string]any{"userConfirmed": true},
				ExpectedNextStep:   "complete",
				ValidationCriteria: []string{"Should create ticket"},
			},
		},
		ExpectedFinalState: map[string]any{"phone": validPhone, "ticketCreated": true},
		ShouldCreateTicket: true,
		Metadata:           map[string]any{"phone_validation_retry": true},
	})

	addr = g.address()
	phone = g.phone()
	cases = append(cases, &scenario.Scenario{
		ID:          "MULTI_EDGE_004",
		Name:        "Change Emergency Type",
		Description: "User initially reports wrong type then corrects",
		Category:    scenario.CategoryEdgeCase,
		Turns: append(append([]scenario.Turn{{
			UserMessage:        "Có cháy!",
			ExpectedActions:    []string{"detect_emergency_type"},
			ExpectedExtract:    map[string]any{"emergencyTypes": []string{"FIRE_RESCUE"}},
			ExpectedNextStep:   "first_aid_then_location",
			ValidationCriteria: []string{"Should detect FIRE_RESCUE"},
		}}, standardTail(addr, phone, "2 người", map[string]any{"total": 2}, "placeholder")[:3]...),
			scenario.Turn{
				UserMessage:        "Xin lỗi, không phải cháy. Thực ra là có người bị thương do tai nạn",
				ExpectedActions:    []string{"detect_correction", "update_emergency_type"},
				ExpectedExtract:    map[string]any{"emergencyTypes": []string{"MEDICAL"}, "isCorrection": true},
				ExpectedNextStep:   "confirmation",
				ValidationCriteria: []string{"Should detect correction", "Should show confirmation"},
			},
			scenario.Turn{
				UserMessage:        "Đúng",
				ExpectedActions:    []string{"create_ticket"},
				ExpectedExtract:    map[string]any{"userConfirmed": true},
				ExpectedNextStep:   "complete",
				ValidationCriteria: []string{"Should create ticket"},
			},
		),
		ExpectedFinalState: map[string]any{"emergencyTypes": []string{"MEDICAL"}, "ticketCreated": true},
		ShouldCreateTicket: true,
		Metadata:           map[string]any{"type_change": true},
	})

	cases = append(cases, &scenario.Scenario{
		ID:          "MULTI_EDGE_005",
		Name:        "Long Conversation with Clarifications",
		Description: "Extended conversation requiring multiple clarifications",
		Category:    scenario.CategoryEdgeCase,
		Turns: []scenario.Turn{
			{
				UserMessage:        "Có vấn đề ở đây",
				ExpectedActions:    []string{"ask_clarification"},
				ExpectedNextStep:   "emergency_clarification",
				ValidationCriteria: []string{"Should ask what happened"},
			},
			{
				UserMessage:        "Có người bị thương",
				ExpectedActions:    []string{"detect_emergency_type"},
				ExpectedExtract:    map[string]any{"emergencyTypes": []string{"MEDICAL"}},
				ExpectedNextStep:   "first_aid_then_location",
				ValidationCriteria: []string{"Should detect MEDICAL emergency"},
			},
			{
				UserMessage:        "Gần đây",
				ExpectedActions:    []string{"ask_specific_location"},
				ExpectedNextStep:   "location_clarification",
				ValidationCriteria: []string{"Should ask for địa chỉ"},
			},
			{
				UserMessage:        "Ở đường Nguyễn Huệ",
				ExpectedActions:    []string{"extract_partial", "ask_more"},
				ExpectedExtract:    map[string]any{"location": map[string]any{"address": "Đường Nguyễn Huệ"}},
				ExpectedNextStep:   "location_clarification",
				ValidationCriteria: []string{"Should ask for địa chỉ details"},
			},
			{
				UserMessage:        "Quận 1",
				ExpectedActions:    []string{"extract_partial", "ask_more"},
				ExpectedExtract:    map[string]any{"location": map[string]any{"district": "Quận 1"}},
				ExpectedNextStep:   "location_clarification",
				ValidationCriteria: []string{"Should ask for địa chỉ details"},
			},
			{
				UserMessage:        "Số 123, Phường Bến Nghé",
				ExpectedActions:    []string{"complete_location", "ask_phone"},
				ExpectedExtract:    map[string]any{"location": map[string]any{"address": "Số 123", "ward": "Phường Bến Nghé"}},
				ExpectedNextStep:   "phone",
				ValidationCriteria: []string{"Should ask for phone number"},
			},
			{
				UserMessage:        "0912345678",
				ExpectedActions:    []string{"validate_phone"},
				ExpectedExtract:    map[string]any{"phone": "0912345678"},
				ExpectedNextStep:   "people",
				ValidationCriteria: []string{"Should validate phone"},
			},
			{
				UserMessage:        "Không biết, nhiều người",
				ExpectedActions:    []string{"estimate_people"},
				ExpectedExtract:    map[string]any{"affectedPeople": map[string]any{"total": 5}},
				ExpectedNextStep:   "confirmation",
				ValidationCriteria: []string{"Should show confirmation"},
			},
			{
				UserMessage:        "Xác nhận",
				ExpectedActions:    []string{"create_ticket"},
				ExpectedExtract:    map[string]any{"userConfirmed": true},
				ExpectedNextStep:   "complete",
				ValidationCriteria: []string{"Should create ticket"},
			},
		},
		ExpectedFinalState: map[string]any{"ticketCreated": true},
		ShouldCreateTicket: true,
		Metadata:           map[string]any{"multiple_clarifications": true, "turn_count": 9},
	})

	return cases
}

// SingleCase is one single-turn evaluation input.
type SingleCase struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Input    string `json:"input"`
}

// SingleCases returns the single-turn corpus.
func (g *Generator) SingleCases() []SingleCase {
	cases := make([]SingleCase, 0, len(singleScripts))
	for _, s := range singleScripts {
		cases = append(cases, SingleCase{ID: s.id, Category: s.category, Input: s.input})
	}
	return cases
}

// ExportJSON writes the generated corpus to path for inspection and for
// consumers outside this harness.
func ExportJSON(scenarios []*scenario.Scenario, path string) error {
	data, err := json.MarshalIndent(scenarios, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
