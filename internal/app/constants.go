package app

// Canonical command names. Aliases resolve to these.
const (
	cmdCreate    = "create"
	cmdJoin      = "join"
	cmdStart     = "start"
	cmdHand      = "hand"
	cmdDeclare   = "declare"
	cmdPlay      = "play"
	cmdChallenge = "challenge"
	cmdStatus    = "status"
	cmdHelp      = "help"
	cmdStop      = "stop"
)

// commandAliases maps folded command words, English and French, to their
// canonical name.
var commandAliases = map[string]string{
	"create": cmdCreate, "creer": cmdCreate, "partie": cmdCreate,
	"join": cmdJoin, "rejoindre": cmdJoin, "moi": cmdJoin,
	"start": cmdStart, "commencer": cmdStart, "go": cmdStart,
	"hand": cmdHand, "jeu": cmdHand, "cartes": cmdHand,
	"declare": cmdDeclare, "annonce": cmdDeclare, "annoncer": cmdDeclare,
	"play": cmdPlay, "poser": cmdPlay, "pose": cmdPlay,
	"challenge": cmdChallenge, "menteur": cmdChallenge, "conteste": cmdChallenge,
	"status": cmdStatus, "etat": cmdStatus,
	"help": cmdHelp, "aide": cmdHelp,
	"stop": cmdStop, "fin": cmdStop, "abandon": cmdStop,
}
