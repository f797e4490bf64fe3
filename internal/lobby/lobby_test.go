package lobby_test

import (
	"errors"
	"testing"

	"tickettoride/internal/lobby"
)

func TestJoin(t *testing.T) {
	l := lobby.NewLobby(2, 3)

	alice, err := l.Join("  Alice ")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if alice.Name != "Alice" || alice.ID == "" {
		t.Errorf("unexpected player %+v", alice)
	}

	tests := []struct {
		name string
		want error
	}{
		{"", lobby.ErrEmptyName},
		{"   ", lobby.ErrEmptyName},
		{"alice", lobby.ErrNameTaken},
		{"ALICE", lobby.ErrNameTaken},
	}
	for _, tt := range tests {
		if _, err := l.Join(tt.name); !errors.Is(err, tt.want) {
			t.Errorf("Join(%q) = %v, want %v", tt.name, err, tt.want)
		}
	}

	bob, err := l.Join("Bob")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if bob.ID == alice.ID {
		t.Error("player IDs must be unique")
	}
	if _, err := l.Join("Carol"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := l.Join("Dave"); !errors.Is(err, lobby.ErrFull) {
		t.Errorf("fourth join = %v, want ErrFull", err)
	}
}

func TestStart(t *testing.T) {
	l := lobby.NewLobby(2, 5)
	p, _ := l.Join("Alice")
	if l.CanStart() {
		t.Error("one player should not be enough")
	}
	if err := l.Start(); !errors.Is(err, lobby.ErrNotEnough) {
		t.Errorf("Start = %v, want ErrNotEnough", err)
	}

	l.Join("Bob")
	l.Leave(p.ID)
	if l.CanStart() {
		t.Error("leave should drop below the minimum")
	}
	l.Join("Carol")
	if !l.CanStart() {
		t.Fatal("two players should be enough")
	}
	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := l.Start(); !errors.Is(err, lobby.ErrStarted) {
		t.Errorf("second Start = %v", err)
	}
	if _, err := l.Join("Dave"); !errors.Is(err, lobby.ErrStarted) {
		t.Errorf("join after start = %v", err)
	}

	players := l.GetPlayers()
	if len(players) != 2 || players[0].Name != "Bob" || players[1].Name != "Carol" {
		t.Errorf("players = %+v", players)
	}
}
