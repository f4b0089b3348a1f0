package service

import (
	"strings"

	"github.com/swapshop/marketplace-service/internal/domain/entity"
)

const (
	sectionDivider = "==========================="
	itemDivider    = "---------------------------"

	whenLayout = "Mon, 02 Jan 2006 15:04"
)

type digestBody struct {
	text string
	html string
}

// renderDigest composes the plain-text and HTML digest variants. Both carry
// the same content: one section per non-empty category, each item as a fixed
// block of labelled lines, blocks separated by a divider. The subscription's
// header and footer wrap the body verbatim; the HTML variant additionally
// turns their newlines into <br>.
func renderDigest(offers, wanted []entity.Listing, events []entity.Event, header, footer string) digestBody {
	return digestBody{
		text: renderVariant(offers, wanted, events, header, footer, false),
		html: renderVariant(offers, wanted, events, header, footer, true),
	}
}

func renderVariant(offers, wanted []entity.Listing, events []entity.Event, header, footer string, html bool) string {
	eol := "\n"
	if html {
		eol = "<br>"
	}

	line := func(b *strings.Builder, label, value string) {
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString(eol)
	}

	listingBlock := func(lead string, item entity.Listing) string {
		var b strings.Builder
		line(&b, lead, item.ItemName)
		line(&b, "Info", item.Info)
		line(&b, "The deal", item.Deal)
		line(&b, "E-Mail", item.Email)
		line(&b, "Name", item.UserName)
		return b.String()
	}

	eventBlock := func(item entity.Event) string {
		var b strings.Builder
		line(&b, "Event", item.EventName)
		line(&b, "Info", item.Info)
		line(&b, "When", item.When.Format(whenLayout))
		line(&b, "E-Mail", item.Email)
		line(&b, "Contact", item.ContactInfo)
		return b.String()
	}

	section := func(title string, blocks []string) string {
		if len(blocks) == 0 {
			return ""
		}
		var b strings.Builder
		b.WriteString(sectionDivider + eol)
		b.WriteString(title + eol)
		b.WriteString(sectionDivider + eol + eol)
		b.WriteString(strings.Join(blocks, itemDivider+eol+eol))
		return b.String()
	}

	offerBlocks := make([]string, len(offers))
	for i, item := range offers {
		offerBlocks[i] = listingBlock("Offered", item) + eol
	}
	wantedBlocks := make([]string, len(wanted))
	for i, item := range wanted {
		wantedBlocks[i] = listingBlock("Wanted", item) + eol
	}
	eventBlocks := make([]string, len(events))
	for i, item := range events {
		eventBlocks[i] = eventBlock(item) + eol
	}

	content := eol + eol +
		section("OFFERED", offerBlocks) + eol +
		section("WANTED", wantedBlocks) + eol +
		section("EVENTS", eventBlocks) + eol

	if html {
		br := func(s string) string { return strings.ReplaceAll(s, "\n", "<br>") }
		return "<html>" + br(header) + content + br(footer) + "</html>"
	}
	return header + content + footer
}
