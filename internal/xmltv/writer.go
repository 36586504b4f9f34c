// Package xmltv serializes channels and programmes to the XMLTV
// document format.
package xmltv

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/teamarr/teamarr/internal/model"
	"github.com/teamarr/teamarr/internal/telemetry"
)

// stampLayout is the XMLTV timestamp form: YYYYMMDDHHMMSS with a
// space-separated UTC offset.
const stampLayout = "20060102150405 -0700"

const generatorName = "teamarr"

// Channel pairs a team with its synthesized programme stream.
type Channel struct {
	Team       model.Team
	Programmes []model.Programme
}

type xmlTV struct {
	XMLName   xml.Name       `xml:"tv"`
	Generator string         `xml:"generator-info-name,attr"`
	Channels  []xmlChannel   `xml:"channel"`
	Programme []xmlProgramme `xml:"programme"`
}

type xmlChannel struct {
	ID          string   `xml:"id,attr"`
	DisplayName []string `xml:"display-name"`
	Icon        *xmlIcon `xml:"icon"`
}

type xmlIcon struct {
	Src string `xml:"src,attr"`
}

type xmlProgramme struct {
	Start    string   `xml:"start,attr"`
	Stop     string   `xml:"stop,attr"`
	Channel  string   `xml:"channel,attr"`
	Title    string   `xml:"title"`
	SubTitle string   `xml:"sub-title,omitempty"`
	Desc     string   `xml:"desc,omitempty"`
	Category []string `xml:"category"`
	Icon     *xmlIcon `xml:"icon"`
}

// Write serializes the channels to path atomically: the document is
// written to a temp file in the target directory and renamed into
// place, so readers never observe a partial guide.
func Write(path string, channels []Channel, loc *time.Location) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".epg-*.xml")
	if err != nil {
		return fmt.Errorf("create temp guide: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteTo(tmp, channels, loc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp guide: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace guide: %w", err)
	}
	telemetry.Infof("xmltv: wrote %d channels to %s", len(channels), path)
	return nil
}

// WriteTo serializes the channels to w. Channels come first, then each
// channel's programmes in ascending start order. An empty channel list
// still yields a well-formed document.
func WriteTo(w io.Writer, channels []Channel, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	doc := xmlTV{Generator: generatorName}
	for _, ch := range channels {
		id := ch.Team.ChannelID()
		xc := xmlChannel{ID: id, DisplayName: []string{ch.Team.Name}}
		if ch.Team.LogoURL != "" {
			xc.Icon = &xmlIcon{Src: ch.Team.LogoURL}
		}
		doc.Channels = append(doc.Channels, xc)

		progs := make([]model.Programme, len(ch.Programmes))
		copy(progs, ch.Programmes)
		sort.Slice(progs, func(i, j int) bool { return progs[i].StartUTC.Before(progs[j].StartUTC) })

		for _, p := range progs {
			xp := xmlProgramme{
				Start:    p.StartUTC.In(loc).Format(stampLayout),
				Stop:     p.StopUTC.In(loc).Format(stampLayout),
				Channel:  id,
				Title:    p.Title,
				SubTitle: p.Subtitle,
				Desc:     p.Description,
				Category: p.Categories,
			}
			if p.Icon != "" {
				xp.Icon = &xmlIcon{Src: p.Icon}
			}
			doc.Programme = append(doc.Programme, xp)
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write guide header: %w", err)
	}
	if _, err := io.WriteString(w, "<!DOCTYPE tv SYSTEM \"xmltv.dtd\">\n"); err != nil {
		return fmt.Errorf("write guide doctype: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode guide: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
