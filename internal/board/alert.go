package board

import "fmt"

// AlertKind tells the presentation layer what raised an alert.
type AlertKind int

const (
	AlertBonus  AlertKind = iota // A bonus tile resolved
	AlertFinish                  // A player reached the final tile
)

// Alert is the single active notification. A newer alert replaces an
// unconsumed one.
type Alert struct {
	Seq     uint64    `json:"seq"` // Increases with every alert raised by a game
	Kind    AlertKind `json:"kind"`
	Bonus   BonusKind `json:"bonus"` // Set for AlertBonus
	Rank    int       `json:"rank"`  // Set for AlertFinish
	Player  string    `json:"player"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

// bonusAlert returns the alert copy for a resolved bonus.
func bonusAlert(b *Bonus, p *Player) Alert {
	a := Alert{Kind: AlertBonus, Bonus: b.Kind, Player: p.Name}
	switch b.Kind {
	case KindSetback:
		a.Title = "⛔️ OOPS!"
		a.Message = fmt.Sprintf("%s fell back 1 space!", p.Name)
	case KindRelocate:
		a.Title = "💎 LIVE POINTS!"
		a.Message = "Found the stash!"
	case KindSpin:
		a.Title = "🎰 SPIN!"
		a.Message = "Spin the wheel!"
	case KindShirt:
		a.Title = "👕 SHIRT!"
		a.Message = "Name on Shirt!"
	case KindGold:
		a.Title = "👑 GOLD!"
		a.Message = "Golden Status!"
	case KindCustom:
		title, msg := b.Title, b.Message
		if title == "" {
			title = "Mystery"
		}
		if msg == "" {
			msg = "Prize!"
		}
		a.Title = "✨ " + title
		a.Message = msg
	}
	return a
}

// finishAlert returns the place-specific alert for a finisher.
func finishAlert(p *Player) Alert {
	a := Alert{Kind: AlertFinish, Rank: p.FinishRank, Player: p.Name}
	switch p.FinishRank {
	case 1:
		a.Title = "🏆 GRAND PRIZE WINNER!"
		a.Message = fmt.Sprintf("%s has won the Grand Prize!", p.Name)
	case 2:
		a.Title = "🥈 2ND PLACE WINNER!"
		a.Message = fmt.Sprintf("%s has won the 2nd Place Prize!", p.Name)
	case 3:
		a.Title = "🥉 3RD PLACE WINNER!"
		a.Message = fmt.Sprintf("%s has won the 3rd Place Prize!", p.Name)
	default:
		a.Title = "🎉 FINISHER!"
		a.Message = fmt.Sprintf("%s finished #%d!", p.Name, p.FinishRank)
	}
	return a
}
