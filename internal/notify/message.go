package notify

import (
	"fmt"
	"html"
)

// Message builders are pure functions of their inputs: no I/O, no clock, no
// randomness. Each returns subject + HTML + plain-text variants.

// ContactClickMessage announces that people are clicking the contact buttons
// on a listing.
func ContactClickMessage(title string, totalClicks int) Message {
	subject := fmt.Sprintf("Buyers are trying to reach you about %q", title)
	text := fmt.Sprintf(
		"Good news! Your listing %q has received %d contact clicks.\n"+
			"Buyers are viewing your phone number and opening chats — "+
			"keep an eye on your inbox and missed calls.\n",
		title, totalClicks)
	htmlBody := fmt.Sprintf(
		"<p>Good news! Your listing <strong>%s</strong> has received <strong>%d</strong> contact clicks.</p>"+
			"<p>Buyers are viewing your phone number and opening chats &mdash; "+
			"keep an eye on your inbox and missed calls.</p>",
		html.EscapeString(title), totalClicks)
	return Message{Subject: subject, HTML: htmlBody, Text: text}
}

// ViewMilestoneMessage congratulates the owner on a view-count milestone.
func ViewMilestoneMessage(title string, totalViews, milestone int) Message {
	subject := fmt.Sprintf("Your listing %q passed %d views", title, milestone)
	text := fmt.Sprintf(
		"Your listing %q has been viewed %d times, passing the %d view mark.\n"+
			"Listings with this much attention tend to sell — make sure your price and photos are up to date.\n",
		title, totalViews, milestone)
	htmlBody := fmt.Sprintf(
		"<p>Your listing <strong>%s</strong> has been viewed <strong>%d</strong> times, passing the %d view mark.</p>"+
			"<p>Listings with this much attention tend to sell &mdash; make sure your price and photos are up to date.</p>",
		html.EscapeString(title), totalViews, milestone)
	return Message{Subject: subject, HTML: htmlBody, Text: text}
}

// ReminderMessage nudges the owner to refresh or close out a stale listing.
// The HTML variant embeds the refresh and mark-as-sold action links.
func ReminderMessage(title string, ordinal int, refreshURL, markSoldURL string) Message {
	subject := fmt.Sprintf("Still selling %q? Give it a refresh", title)
	text := fmt.Sprintf(
		"Your listing %q has been quiet for a while (reminder %d of %d).\n\n"+
			"Refresh it to move it back up the results:\n%s\n\n"+
			"Already sold? Mark it as sold here:\n%s\n",
		title, ordinal, reminderCap, refreshURL, markSoldURL)
	htmlBody := fmt.Sprintf(
		"<p>Your listing <strong>%s</strong> has been quiet for a while (reminder %d of %d).</p>"+
			"<p><a href=%q>Refresh your listing</a> to move it back up the results.</p>"+
			"<p>Already sold? <a href=%q>Mark it as sold</a>.</p>",
		html.EscapeString(title), ordinal, reminderCap, refreshURL, markSoldURL)
	return Message{Subject: subject, HTML: htmlBody, Text: text}
}

// PublishMessage announces that a listing went live.
func PublishMessage(title string, listingURL string) Message {
	subject := fmt.Sprintf("Your listing %q is now live", title)
	text := fmt.Sprintf(
		"Your listing %q has been published and is now visible to buyers.\n\n"+
			"View it here:\n%s\n",
		title, listingURL)
	htmlBody := fmt.Sprintf(
		"<p>Your listing <strong>%s</strong> has been published and is now visible to buyers.</p>"+
			"<p><a href=%q>View your listing</a>.</p>",
		html.EscapeString(title), listingURL)
	return Message{Subject: subject, HTML: htmlBody, Text: text}
}
