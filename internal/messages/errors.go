package messages

import "fmt"

// TimezoneReferenceURL points users at the list of valid timezone names.
const TimezoneReferenceURL = "https://en.wikipedia.org/wiki/List_of_tz_database_time_zones"

// ErrorUnknownTimezone asks the user to set their timezone before an
// operation that needs it.
func ErrorUnknownTimezone(mention string) string {
	return fmt.Sprintf(
		"Uh-oh, %s! I need to file some paperwork with the Inter-island Revenue"+
			" Service. Please let me know your timezone by typing:"+
			" `$timezone <your timezone>`.",
		mention,
	)
}

// ErrorBadTimezone reports an unparseable timezone argument.
func ErrorBadTimezone(mention, badTZ string) string {
	return fmt.Sprintf(
		"Hmmmm. %s, I'm having a hard time understanding the timezone '%s'."+
			" Try a timezone from: %s",
		mention, badTZ, TimezoneReferenceURL,
	)
}

// ErrorImaginaryDate reports a date argument that does not exist.
func ErrorImaginaryDate(mention, dateArg string) string {
	return fmt.Sprintf(
		"%s, you might need to check your calendar! '%s' doesn't exist!",
		mention, dateArg,
	)
}

// ErrorFutureDate reports a date argument that has not happened yet.
func ErrorFutureDate(mention, dateArg string) string {
	return fmt.Sprintf(
		"%s, are you some sort of time traveler!? '%s' hasn't happened yet!",
		mention, dateArg,
	)
}

// ErrorTimeOfDayRequired reports a historical price update missing AM/PM.
func ErrorTimeOfDayRequired(mention string) string {
	return fmt.Sprintf(
		"%s, I need to know what time of day this price was being offered."+
			" Please include either 'AM' or 'PM' in your memo like so:"+
			" `$ticker 123 4/14 AM`.",
		mention,
	)
}

// ErrorNoBulletinChannel tells a user their server has no bulletin channel
// configured. Sent privately so one server's configuration never leaks into
// another server's channel.
func ErrorNoBulletinChannel(mention, serverName string) string {
	return fmt.Sprintf(
		"%s, it looks like your server '%s' does not yet have a bulletin channel"+
			" set up, so I can't alert them to your market's movements. Tell an"+
			" admin they need to type the `$bulletins_here` command in the channel"+
			" you all want to use. Or if you're an admin, do it yourself!",
		mention, serverName,
	)
}

// ErrorBadArgument reports a command argument the broker could not make
// sense of.
func ErrorBadArgument(mention, token string) string {
	return fmt.Sprintf(
		"Sorry, %s, I don't know what to do with '%s'. Prices look like `112`,"+
			" dates like `4/14`, and times of day are `AM` or `PM`.",
		mention, token,
	)
}

// ErrorGuildOnly reports a server-configuration command sent over DM.
func ErrorGuildOnly(mention string) string {
	return fmt.Sprintf(
		"%s, that command configures a server, so you'll need to send it from"+
			" a channel on the server you want to configure.",
		mention,
	)
}

// ErrorImpossibleTicker reports the forecasting backend rejecting the
// week's prices as contradictory.
func ErrorImpossibleTicker(mention string) string {
	return fmt.Sprintf(
		"%s, something is up with your prices: no known pattern can produce"+
			" them. Double-check this week's numbers with `$ticker` and correct"+
			" any typos, like `$ticker 92 monday AM`... I mean `$ticker 92 5/11 AM`.",
		mention,
	)
}

// ErrorBackend reports an opaque forecasting backend failure.
func ErrorBackend(mention string) string {
	return fmt.Sprintf(
		"Sorry, %s. The market forecasters aren't answering their phones right"+
			" now. Try again in a bit.",
		mention,
	)
}

// ErrorGeneral is the public reply for unclassified failures.
func ErrorGeneral(mention string) string {
	return fmt.Sprintf(
		"Well, nuts. I had some trouble processing your request, %s."+
			" I'll DM you the details.",
		mention,
	)
}

// ErrorGeneralDetails is the private follow-up carrying diagnostics.
func ErrorGeneralDetails(details string) string {
	return fmt.Sprintf("Here is some more info on the error I encountered:\n```%s```", details)
}
