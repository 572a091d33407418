package game

import (
	"encoding/json"
	"log"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

// Prefs holds sandbox preferences saved between sessions
type Prefs struct {
	WindowWidth  int    `json:"windowWidth"`
	WindowHeight int    `json:"windowHeight"`
	WindowX      int    `json:"windowX"`
	WindowY      int    `json:"windowY"`
	ScenePath    string `json:"scenePath"`
	ShowPanel    bool   `json:"showPanel"`
	Muted        bool   `json:"muted"`
	Tuning       Tuning `json:"tuning"`
}

const prefsFile = ".sandbox_prefs.json"

// LoadPrefs reads preferences from path. A missing file is not an error;
// it returns nil prefs.
func LoadPrefs(path string) (*Prefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read prefs")
	}

	var prefs Prefs
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, errors.Wrap(err, "parse prefs")
	}
	return &prefs, nil
}

// Save writes the preferences to path
func (p *Prefs) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal prefs")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "write prefs")
}

// capturePrefs snapshots the window and world state. Call before the window closes.
func (g *Game) capturePrefs() *Prefs {
	pos := rl.GetWindowPosition()
	return &Prefs{
		WindowWidth:  rl.GetScreenWidth(),
		WindowHeight: rl.GetScreenHeight(),
		WindowX:      int(pos.X),
		WindowY:      int(pos.Y),
		ScenePath:    g.ScenePath,
		ShowPanel:    g.ShowPanel,
		Muted:        g.Muted,
		Tuning:       tuningOf(g.World),
	}
}

// applyPrefs restores what was saved. Window geometry is applied by Run.
func (g *Game) applyPrefs(p *Prefs) {
	if p == nil {
		return
	}
	g.ShowPanel = p.ShowPanel
	g.Muted = p.Muted
	if err := p.Tuning.apply(g.World); err != nil {
		log.Printf("Prefs: ignoring tuning: %v", err)
	}
}
