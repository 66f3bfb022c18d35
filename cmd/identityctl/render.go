package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mycelian/mycelian-identities/client"
	"github.com/mycelian/mycelian-identities/collection"
	"github.com/mycelian/mycelian-identities/view"
)

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cols ...string) {
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// renderFailure prints the standard message for a collection whose last
// fetch failed. It reports whether it printed anything.
func renderFailure(w io.Writer, what string, state collection.State, err error) bool {
	if state != collection.Failed {
		return false
	}
	fmt.Fprintf(w, "Failed to load %s: %s\n", what, client.Message(err))
	return true
}

func renderIdentities(w io.Writer, ids []client.Identity) {
	if len(ids) == 0 {
		fmt.Fprintln(w, "No identities yet.")
		return
	}
	primary, others := view.PartitionPrimary(ids)
	tw := newTable(w, "ID", "NAME", "TYPE", "STATUS", "PRIMARY")
	if primary != nil {
		row(tw, primary.ID, primary.Name, string(primary.IdentityType), string(primary.Status), "yes")
	}
	for _, id := range others {
		row(tw, id.ID, id.Name, string(id.IdentityType), string(id.Status), "no")
	}
	_ = tw.Flush()
}

func renderIdentityList(w io.Writer, list *client.IdentityList) {
	fmt.Fprintf(w, "%d identities\n", list.Total)
	if len(list.Items) == 0 {
		return
	}
	tw := newTable(w, "ID", "CHARACTER", "NAME", "TYPE", "STATUS", "PRIMARY")
	for _, id := range list.Items {
		row(tw, id.ID, id.CharacterID, id.Name, string(id.IdentityType), string(id.Status), yesNo(id.IsPrimary))
	}
	_ = tw.Flush()
}

func renderIdentity(w io.Writer, id client.Identity) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	row(tw, "ID:", id.ID)
	row(tw, "Name:", id.Name)
	row(tw, "Character:", id.CharacterID)
	row(tw, "Type:", string(id.IdentityType))
	row(tw, "Status:", string(id.Status))
	row(tw, "Primary:", yesNo(id.IsPrimary))
	row(tw, "Appearance:", orDash(id.Appearance))
	row(tw, "Personality:", orDash(id.Personality))
	row(tw, "Background:", orDash(id.Background))
	row(tw, "Voice:", orDash(id.VoiceStyle))
	_ = tw.Flush()
}

// renderPage prints the roster with the selection marked by "*".
func renderPage(w io.Writer, v view.PageView) {
	if renderFailure(w, "identities", v.State, v.Err) {
		return
	}
	if len(v.Characters) == 0 {
		fmt.Fprintln(w, "No characters have identities yet.")
		return
	}
	for _, c := range v.Characters {
		mark := " "
		if v.SelectedCharacter != nil && v.SelectedCharacter.Character.ID == c.Character.ID {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s (%s)\n", mark, c.Character.Name, c.Character.ID)
		primary, others := view.PartitionPrimary(c.Identities)
		if primary != nil {
			fmt.Fprintf(w, "    %s%s [%s, primary]\n", selMark(v, primary.ID), primary.Name, primary.IdentityType)
		}
		for _, id := range others {
			fmt.Fprintf(w, "    %s%s [%s, %s]\n", selMark(v, id.ID), id.Name, id.IdentityType, id.Status)
		}
	}
}

func selMark(v view.PageView, id string) string {
	if v.SelectedIdentity != nil && v.SelectedIdentity.ID == id {
		return "> "
	}
	return "  "
}

func renderCareers(w io.Writer, snap collection.Snapshot[client.IdentityCareer]) {
	if renderFailure(w, "careers", snap.State, snap.Err) {
		return
	}
	if len(snap.Items) == 0 {
		fmt.Fprintln(w, "No careers yet.")
		return
	}
	tw := newTable(w, "CAREER ID", "NAME", "TYPE", "STAGE", "PROGRESS", "NOTES")
	for _, c := range snap.Items {
		stage := strconv.Itoa(c.CurrentStage)
		if c.CareerMaxStage > 0 {
			stage += "/" + strconv.Itoa(c.CareerMaxStage)
		}
		row(tw, c.CareerID, orDash(c.CareerName), string(c.CareerType), stage, strconv.Itoa(c.StageProgress)+"%", orDash(c.Notes))
	}
	_ = tw.Flush()
}

func renderKnowledge(w io.Writer, snap collection.Snapshot[client.IdentityKnowledge]) {
	if renderFailure(w, "knowledge", snap.State, snap.Err) {
		return
	}
	if len(snap.Items) == 0 {
		fmt.Fprintln(w, "Nobody knows about this identity yet.")
		return
	}
	tw := newTable(w, "ID", "KNOWER", "LEVEL", "SINCE", "SECRET", "HOW")
	for _, k := range snap.Items {
		knower := k.KnowerName
		if knower == "" {
			knower = k.KnowerCharacterID
		}
		row(tw, k.ID, knower, string(k.KnowledgeLevel), k.SinceWhen, yesNo(k.IsSecret), orDash(k.DiscoveredHow))
	}
	_ = tw.Flush()
}

func renderCheck(w io.Writer, knower string, c *client.KnowledgeCheck) {
	if !c.Knows {
		fmt.Fprintf(w, "%s does not know about this identity.\n", knower)
		return
	}
	fmt.Fprintf(w, "%s knows (%s)", knower, c.KnowledgeLevel)
	if c.Knowledge != nil && c.Knowledge.SinceWhen != "" {
		fmt.Fprintf(w, " since %s", c.Knowledge.SinceWhen)
	}
	fmt.Fprintln(w, ".")
}

func renderCharacters(w io.Writer, chars []client.Character) {
	if len(chars) == 0 {
		fmt.Fprintln(w, "No characters yet.")
		return
	}
	tw := newTable(w, "ID", "NAME")
	for _, c := range chars {
		row(tw, c.ID, c.Name)
	}
	_ = tw.Flush()
}

func renderCatalogCareers(w io.Writer, careers []client.Career) {
	if len(careers) == 0 {
		fmt.Fprintln(w, "No careers in the catalog yet.")
		return
	}
	tw := newTable(w, "ID", "NAME", "TYPE", "MAX STAGE")
	for _, c := range careers {
		row(tw, c.ID, c.Name, string(c.Type), strconv.Itoa(c.MaxStage))
	}
	_ = tw.Flush()
}

// renderNotifications prints drained notifications, one per line.
func renderNotifications(w io.Writer, notes []collection.Notification) {
	for _, n := range notes {
		fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Message)
	}
}
