package dumpybot

import "time"

const helpMsg = "Send me a picture with /dumpy in the caption, or reply to one with /dumpy, " +
	"and I will rebuild it out of dancing crewmates.\n\n" +
	"/dumpy [height] - render a picture; height is the number of rows (1-50)\n" +
	"/height [height] - show or set your default height\n" +
	"/say <voice> <text> - have a famous voice read your text\n" +
	"/voices - list the available voices\n" +
	"/stats - today's numbers"

const (
	makeGIFButtonText = "🎞 Make a GIF"
	heightButtonText  = "📏 Height"
	voicesButtonText  = "🗣 Voices"
	helpButtonText    = "❓ Help"
)

// heightChoices are offered by the /height keyboard.
var heightChoices = []int{5, 10, 15, 20, 25, 30, 40, 50}

const heightCallbackPrefix = "height"

const chatUploadVoice = "upload_voice"

const (
	renderTimeout   = 2 * time.Minute
	downloadTimeout = 30 * time.Second
)
