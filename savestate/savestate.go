// Package savestate edits the story mode save document the front end owns.
// Keys this package does not know about are carried through untouched.
package savestate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"match-handler/challenge"
)

const (
	keyAttempts  = "challenges_attempts"
	keyCompleted = "challenges_completed"
	keyUpgrades  = "upgrades"
	keyCurrency  = "currency"

	CompletionReward = 2
)

type Attempt struct {
	// GameResults is null when the match ended without a verdict.
	GameResults        json.RawMessage `json:"game_results"`
	ChallengeCompleted bool            `json:"challenge_completed"`
}

type SaveState struct {
	ChallengesAttempts map[string][]Attempt
	// ChallengesCompleted maps a challenge to the index of its first successful attempt.
	ChallengesCompleted map[string]int
	Upgrades            map[string]json.RawMessage

	other map[string]json.RawMessage
}

func Parse(raw string) (*SaveState, error) {
	var s SaveState
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}
	return &s, nil
}

func (s *SaveState) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	s.ChallengesAttempts = map[string][]Attempt{}
	s.ChallengesCompleted = map[string]int{}
	s.Upgrades = map[string]json.RawMessage{}

	if err := unmarshalField(fields, keyAttempts, &s.ChallengesAttempts); err != nil {
		return err
	}
	if err := unmarshalField(fields, keyCompleted, &s.ChallengesCompleted); err != nil {
		return err
	}
	if err := unmarshalField(fields, keyUpgrades, &s.Upgrades); err != nil {
		return err
	}

	delete(fields, keyAttempts)
	delete(fields, keyCompleted)
	delete(fields, keyUpgrades)
	s.other = fields
	return nil
}

func unmarshalField(fields map[string]json.RawMessage, key string, v any) error {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func (s *SaveState) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.other)+3)
	for key, value := range s.other {
		out[key] = value
	}

	out[keyAttempts] = nonNil(s.ChallengesAttempts)
	out[keyCompleted] = nonNil(s.ChallengesCompleted)
	out[keyUpgrades] = nonNil(s.Upgrades)
	return json.Marshal(out)
}

func nonNil[V any](m map[string]V) map[string]V {
	if m == nil {
		return map[string]V{}
	}
	return m
}

// Currency is the spendable balance in the upgrades ledger.
func (s *SaveState) Currency() (int, error) {
	raw, ok := s.Upgrades[keyCurrency]
	if !ok {
		return 0, nil
	}

	var currency int
	if err := json.Unmarshal(raw, &currency); err != nil {
		return 0, fmt.Errorf("%s.%s: %w", keyUpgrades, keyCurrency, err)
	}
	return currency, nil
}

func (s *SaveState) setCurrency(currency int) {
	if s.Upgrades == nil {
		s.Upgrades = map[string]json.RawMessage{}
	}
	s.Upgrades[keyCurrency] = json.RawMessage(fmt.Sprintf("%d", currency))
}

// IsCompleted reports whether the challenge has been completed before.
func (s *SaveState) IsCompleted(challengeId string) bool {
	_, ok := s.ChallengesCompleted[challengeId]
	return ok
}

// AddMatchResult appends the attempt and, on a first completion, records its
// index and pays the completion reward.
func (s *SaveState) AddMatchResult(challengeId string, completed bool, results *challenge.GameResult) error {
	var rawResults json.RawMessage
	if results != nil {
		data, err := json.Marshal(results)
		if err != nil {
			return fmt.Errorf("game results: %w", err)
		}
		rawResults = data
	}

	if s.ChallengesAttempts == nil {
		s.ChallengesAttempts = map[string][]Attempt{}
	}
	if s.ChallengesCompleted == nil {
		s.ChallengesCompleted = map[string]int{}
	}

	s.ChallengesAttempts[challengeId] = append(s.ChallengesAttempts[challengeId], Attempt{
		GameResults:        rawResults,
		ChallengeCompleted: completed,
	})

	if !completed || s.IsCompleted(challengeId) {
		return nil
	}

	currency, err := s.Currency()
	if err != nil {
		return err
	}
	s.ChallengesCompleted[challengeId] = len(s.ChallengesAttempts[challengeId]) - 1
	s.setCurrency(currency + CompletionReward)
	return nil
}
