package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// defaultRecipientName stands in when no display name can be resolved.
const defaultRecipientName = "N/A"

// Template placeholders replaced in subject and body. No other
// templating syntax is supported.
const (
	placeholderID   = "{id}"
	placeholderName = "{name}"
)

// parseAttachmentName splits a generated file's base name into its
// identifier and optional display name at the first hyphen:
// "S123-Alpha Co.xlsx" -> ("S123", "Alpha Co"), "S123.xlsx" -> ("S123", "").
func parseAttachmentName(filename string) (id, name string) {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if i := strings.Index(base, "-"); i >= 0 {
		return strings.TrimSpace(base[:i]), strings.TrimSpace(base[i+1:])
	}
	return strings.TrimSpace(base), ""
}

// fileGroup is every generated file sharing one identifier; all of them
// ride on a single message.
type fileGroup struct {
	ID    string
	Name  string // from the first file that carried one
	Files []string
}

// groupFiles buckets file paths by filename-derived identifier,
// preserving first-seen order. Files with no parseable identifier end
// up in one group with an empty ID so they surface in the log.
func groupFiles(paths []string) []*fileGroup {
	var groups []*fileGroup
	byID := make(map[string]*fileGroup)
	for _, p := range paths {
		id, name := parseAttachmentName(p)
		g, ok := byID[id]
		if !ok {
			g = &fileGroup{ID: id}
			byID[id] = g
			groups = append(groups, g)
		}
		if g.Name == "" {
			g.Name = name
		}
		g.Files = append(g.Files, p)
	}
	return groups
}

// dispatchTask is the immutable snapshot a background dispatch runs on.
// Everything it needs is resolved before the goroutine starts; nothing
// points back at request state.
type dispatchTask struct {
	JobID           string
	Files           []string
	Recipients      *recipientTable
	RefCol          int
	EmailCol        int
	NameCol         int // -1 when not configured
	CCCol           int // -1 when not configured
	SenderName      string
	SenderEmail     string
	SubjectTemplate string
	BodyTemplate    string
	StrictNameMatch bool
}

func renderTemplate(tpl, id, name string) string {
	tpl = strings.ReplaceAll(tpl, placeholderID, id)
	return strings.ReplaceAll(tpl, placeholderName, name)
}

// runDispatch processes every file group in order: match, render, send,
// log. Only a failed Connect aborts the batch; each group's outcome is
// caught individually so one bad row cannot kill the rest.
func runDispatch(ctx context.Context, task dispatchTask, transport Transport, progress func(done, total int)) ([]ActivityEntry, error) {
	if len(task.Files) == 0 {
		return nil, ErrNoAttachments
	}
	if err := transport.Connect(ctx); err != nil {
		return nil, fmt.Errorf("open mail transport: %w", err)
	}
	defer transport.Close()

	groups := groupFiles(task.Files)
	total := len(groups)
	entries := make([]ActivityEntry, 0, total)
	for i, g := range groups {
		entry := processGroup(ctx, task, transport, g)
		entries = append(entries, entry)
		if progress != nil {
			progress(i+1, total)
		}
		switch entry.Status {
		case StatusSuccess:
			log.Printf("dispatch %s: [%d/%d] sent to %s (%s)", task.JobID, i+1, total, entry.EmailTo, entry.Code)
		default:
			log.Printf("dispatch %s: [%d/%d] %s %s: %s", task.JobID, i+1, total, strings.ToLower(string(entry.Status)), entry.Code, entry.Error)
		}
	}
	return entries, nil
}

// processGroup resolves and sends one file group. Any panic from a
// malformed row degrades to a Failed entry.
func processGroup(ctx context.Context, task dispatchTask, transport Transport, g *fileGroup) (entry ActivityEntry) {
	entry = ActivityEntry{Time: time.Now(), Code: g.ID, Name: g.Name}
	defer func() {
		if r := recover(); r != nil {
			entry.Status = StatusFailed
			entry.Error = fmt.Sprintf("unexpected error: %v", r)
		}
	}()

	if g.ID == "" {
		entry.Name = filepath.Base(g.Files[0])
		entry.Status = StatusFailed
		entry.Error = fmt.Sprintf("cannot extract identifier from file name %q", filepath.Base(g.Files[0]))
		return entry
	}

	matched := task.Recipients.matchByID(task.RefCol, g.ID)
	if task.StrictNameMatch && task.NameCol >= 0 && g.Name != "" {
		var narrowed []recipientRow
		for _, row := range matched {
			if row.cell(task.NameCol) == strings.TrimSpace(g.Name) {
				narrowed = append(narrowed, row)
			}
		}
		matched = narrowed
	}
	if len(matched) == 0 {
		if entry.Name == "" {
			entry.Name = defaultRecipientName
		}
		entry.Status = StatusSkipped
		entry.Error = fmt.Sprintf("no matching recipient for identifier %s", g.ID)
		return entry
	}
	if len(matched) > 1 {
		if entry.Name == "" {
			entry.Name = defaultRecipientName
		}
		entry.Status = StatusSkipped
		entry.Error = fmt.Sprintf("ambiguous match: %d recipient rows share identifier %s", len(matched), g.ID)
		return entry
	}

	row := matched[0]
	name := defaultRecipientName
	if task.NameCol >= 0 {
		if v := row.cell(task.NameCol); v != "" {
			name = v
		}
	}
	entry.Name = name

	to := row.cell(task.EmailCol)
	cc := ""
	if task.CCCol >= 0 {
		cc = row.cell(task.CCCol)
	}
	entry.EmailCC = cc
	if to == "" {
		entry.Status = StatusSkipped
		entry.Error = "recipient (To) address is empty"
		return entry
	}
	entry.EmailTo = to

	msg := &OutgoingMessage{
		SenderName:  task.SenderName,
		SenderEmail: task.SenderEmail,
		To:          to,
		CC:          cc,
		Subject:     renderTemplate(task.SubjectTemplate, g.ID, name),
		Body:        renderTemplate(task.BodyTemplate, g.ID, name),
	}
	for _, path := range g.Files {
		content, err := os.ReadFile(path)
		if err != nil {
			entry.Status = StatusFailed
			entry.Error = fmt.Sprintf("read attachment %s: %v", filepath.Base(path), err)
			return entry
		}
		msg.Attachments = append(msg.Attachments, Attachment{Filename: filepath.Base(path), Content: content})
	}

	if err := transport.Send(ctx, msg); err != nil {
		entry.Status = StatusFailed
		entry.Error = err.Error()
		return entry
	}
	entry.Status = StatusSuccess
	return entry
}
