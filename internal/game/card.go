package game

type Card string

const (
	CardRock     Card = "rock"
	CardPaper    Card = "paper"
	CardScissors Card = "scissors"
)

type Role string

const (
	RoleHost       Role = "host"
	RoleChallenger Role = "challenger"
)

func (r Role) Opponent() Role {
	if r == RoleHost {
		return RoleChallenger
	}
	return RoleHost
}

type Outcome string

const (
	OutcomeHost       Outcome = "host"
	OutcomeChallenger Outcome = "challenger"
	OutcomeTie        Outcome = "tie"
)

var dominance = map[Card]map[Card]Outcome{
	CardRock: {
		CardRock:     OutcomeTie,
		CardPaper:    OutcomeChallenger,
		CardScissors: OutcomeHost,
	},
	CardPaper: {
		CardRock:     OutcomeHost,
		CardPaper:    OutcomeTie,
		CardScissors: OutcomeChallenger,
	},
	CardScissors: {
		CardRock:     OutcomeChallenger,
		CardPaper:    OutcomeHost,
		CardScissors: OutcomeTie,
	},
}

// Duel scores a completed pair of selections. Total over all nine
// ordered pairs of the three kinds.
func Duel(host, challenger Card) Outcome {
	return dominance[host][challenger]
}
