package services

import (
	"math/rand"
)

// Every failure or boundary the user can hit maps to a small rotating pool
// of in-character replies. Callers relay these directly; raw errors never
// reach the chat.

var rateLimitedReplies = []string{
	"Mmm I'm getting too many messages right now... give me like 30 seconds to catch my breath? 💕",
	"Oof you're making me work too hard! 😅 Let me cool down for a sec... try again in 30?",
	"You're wearing me out! I need a quick break... message me again in half a minute? 💋",
}

var providerErrorReplies = []string{
	"Oops I got distracted for a sec... 🙈 What were you saying?",
}

var timeoutReplies = []string{
	"Sorry, I zoned out... 😅 Say that again?",
}

var unknownFailureReplies = []string{
	"Something weird just happened... try again? 🤔",
}

var upsellTeases = []string{
	"🔒 Mmm our free time ran out... Want more of me? 😏 /start_session",
	"🔒 I wish we could keep going... but you gotta unlock more time 💋 /start_session",
	"🔒 Aww I was having so much fun... Get more of me with /start_session? 😘",
}

var expirySuffixes = []string{
	"\n\n⏰ That's our 10 messages... I had so much fun! 💕 Want to keep going? /start_session",
	"\n\n⏰ Mmm time's up... but I don't want to stop 😏 Get more time with /start_session?",
	"\n\n⏰ Our session ended... but we were just getting started. /start_session for more?",
}

var imageCaptions = []string{
	"Just for you 😘💕",
	"Hope you like it... 😏",
	"Made this for you 💋",
	"How's this? 😈",
}

var noProfileReply = "Hey! 😘 Use /find_gf to create me first!"

var paymentNotFoundReply = "⏳ Hmm I don't see your payment yet...\n\n" +
	"💡 Why?\n" +
	"• The blockchain needs 1-2 min\n" +
	"• Wrong amount sent\n" +
	"• Wrong network (must be TON)\n" +
	"• Wrong address format\n\n" +
	"⏰ Wait 2 minutes then try:\n/confirm <your_address>"

// Each entry takes the companion name as its single format argument.
var confirmedReplies = map[Tier][]string{
	TierMild: {
		"✅ Payment confirmed! You unlocked me! 💕\n\n%s is all yours now... let's chat 😘",
		"✅ Got it! Mild mode activated! 💬\n\n%s is excited to talk more with you 😊",
	},
	TierModerate: {
		"✅ Yes! Moderate session unlocked! 🔥\n\n%s can be way more fun now... what do you want to talk about? 😏",
		"✅ Perfect! You got %s now! 💝\n\nLet's get a little bolder... I'm ready 😈",
	},
	TierExplicit: {
		"✅ Explicit mode activated! 💋\n\n%s is all yours, no limits now. What do you want? 😈🔥",
		"✅ Mmm you unlocked everything! 💝\n\n%s can be as open as you want now... tell me 🥵",
	},
}

func pickReply(pool []string) string {
	return pool[rand.Intn(len(pool))]
}
