// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package metadata

import (
	"encoding/xml"
	"slices"
	"strings"
	"time"
)

// ComicInfo is the ComicInfo.xml v2.0 document. Elements follow schema order.
type ComicInfo struct {
	XMLName        xml.Name `xml:"ComicInfo"`
	XSI            string   `xml:"xmlns:xsi,attr,omitempty"`
	SchemaLocation string   `xml:"xsi:noNamespaceSchemaLocation,attr,omitempty"`

	Title               string         `xml:"Title,omitempty"`
	Series              string         `xml:"Series,omitempty"`
	Number              string         `xml:"Number,omitempty"`
	Count               int            `xml:"Count,omitempty"`
	Volume              int            `xml:"Volume,omitempty"`
	AlternateSeries     string         `xml:"AlternateSeries,omitempty"`
	AlternateNumber     string         `xml:"AlternateNumber,omitempty"`
	StoryArc            string         `xml:"StoryArc,omitempty"`
	SeriesGroup         string         `xml:"SeriesGroup,omitempty"`
	AlternateCount      int            `xml:"AlternateCount,omitempty"`
	Summary             string         `xml:"Summary,omitempty"`
	Notes               string         `xml:"Notes,omitempty"`
	Year                int            `xml:"Year,omitempty"`
	Month               int            `xml:"Month,omitempty"`
	Day                 int            `xml:"Day,omitempty"`
	Writer              string         `xml:"Writer,omitempty"`
	Penciller           string         `xml:"Penciller,omitempty"`
	Inker               string         `xml:"Inker,omitempty"`
	Colorist            string         `xml:"Colorist,omitempty"`
	Letterer            string         `xml:"Letterer,omitempty"`
	CoverArtist         string         `xml:"CoverArtist,omitempty"`
	Editor              string         `xml:"Editor,omitempty"`
	Publisher           string         `xml:"Publisher,omitempty"`
	Imprint             string         `xml:"Imprint,omitempty"`
	Genre               string         `xml:"Genre,omitempty"`
	Web                 string         `xml:"Web,omitempty"`
	PageCount           int            `xml:"PageCount,omitempty"`
	LanguageISO         string         `xml:"LanguageISO,omitempty"`
	Format              string         `xml:"Format,omitempty"`
	BlackAndWhite       YesNo          `xml:"BlackAndWhite,omitempty"`
	Manga               Manga          `xml:"Manga,omitempty"`
	Characters          string         `xml:"Characters,omitempty"`
	Teams               string         `xml:"Teams,omitempty"`
	Locations           string         `xml:"Locations,omitempty"`
	ScanInformation     string         `xml:"ScanInformation,omitempty"`
	Pages               []Page         `xml:"Pages>Page,omitempty"`
	CommunityRating     float64        `xml:"CommunityRating,omitempty"`
	MainCharacterOrTeam string         `xml:"MainCharacterOrTeam,omitempty"`
	Review              string         `xml:"Review,omitempty"`
	AgeRating           ComicAgeRating `xml:"AgeRating,omitempty"`
}

// ParseComicInfo decodes a ComicInfo document. Empty input returns (nil, nil).
func ParseComicInfo(data []byte) (*ComicInfo, error) {
	var info ComicInfo
	absent, err := unmarshalDocument(data, &info)
	if absent || err != nil {
		return nil, err
	}

	info.normalize()
	return &info, nil
}

// normalize trims text fields and clamps the rating into 0..5.
func (c *ComicInfo) normalize() {
	for _, field := range []*string{
		&c.Title, &c.Series, &c.Number, &c.AlternateSeries, &c.AlternateNumber,
		&c.StoryArc, &c.SeriesGroup, &c.Summary, &c.Notes, &c.Writer,
		&c.Penciller, &c.Inker, &c.Colorist, &c.Letterer, &c.CoverArtist,
		&c.Editor, &c.Publisher, &c.Imprint, &c.Genre, &c.Web, &c.LanguageISO,
		&c.Format, &c.Characters, &c.Teams, &c.Locations, &c.ScanInformation,
		&c.MainCharacterOrTeam, &c.Review,
	} {
		*field = strings.TrimSpace(*field)
	}

	c.CommunityRating = min(max(c.CommunityRating, 0), 5)
}

// Filename implements Record.
func (*ComicInfo) Filename() string {
	return ComicInfoFilename
}

// SeriesFormat implements Record.
func (c *ComicInfo) SeriesFormat() string {
	return c.Format
}

// Marshal implements Record.
func (c *ComicInfo) Marshal() ([]byte, error) {
	out := *c
	out.XSI = xsiNamespace
	out.SchemaLocation = ComicInfoSchema
	out.Pages = UniquePages(c.Pages)
	return marshalDocument(&out)
}

// ResolveField implements naming.Resolver.
func (c *ComicInfo) ResolveField(key string) (any, bool) {
	return comicInfoFields.Resolve(c, key)
}

func (*ComicInfo) sealed() {}

// CoverDate assembles Year, Month and Day; nil without a year.
// Missing month or day default to 1.
func (c *ComicInfo) CoverDate() *Date {
	if c.Year == 0 {
		return nil
	}

	return DatePtr(c.Year, time.Month(max(c.Month, 1)), max(c.Day, 1))
}

// SetCoverDate splits d into Year, Month and Day; nil clears them.
func (c *ComicInfo) SetCoverDate(d *Date) {
	if d == nil {
		c.Year, c.Month, c.Day = 0, 0, 0
		return
	}

	c.Year, c.Month, c.Day = d.Year(), int(d.Month()), d.Day()
}

// Credit roles stored in dedicated ComicInfo elements.
const (
	CreditWriter      = "Writer"
	CreditPenciller   = "Penciller"
	CreditInker       = "Inker"
	CreditColorist    = "Colorist"
	CreditLetterer    = "Letterer"
	CreditCoverArtist = "Cover Artist"
	CreditEditor      = "Editor"
)

// creditFields pairs every credit role with its element.
func (c *ComicInfo) creditFields() []struct {
	role  string
	field *string
} {
	return []struct {
		role  string
		field *string
	}{
		{CreditWriter, &c.Writer},
		{CreditPenciller, &c.Penciller},
		{CreditInker, &c.Inker},
		{CreditColorist, &c.Colorist},
		{CreditLetterer, &c.Letterer},
		{CreditCoverArtist, &c.CoverArtist},
		{CreditEditor, &c.Editor},
	}
}

// Credits maps each creator to the roles they are listed under.
func (c *ComicInfo) Credits() map[string][]string {
	out := make(map[string][]string)
	for _, credit := range c.creditFields() {
		for _, creator := range SplitList(*credit.field) {
			out[creator] = append(out[creator], credit.role)
		}
	}

	return out
}

// SetCredits replaces every credit element from a creator to roles map.
// Roles match case-insensitively.
func (c *ComicInfo) SetCredits(credits map[string][]string) {
	for _, credit := range c.creditFields() {
		var creators []string
		for creator, roles := range credits {
			if slices.ContainsFunc(roles, func(role string) bool {
				return strings.EqualFold(role, credit.role)
			}) {
				creators = append(creators, creator)
			}
		}

		slices.SortFunc(creators, compareNatural)
		*credit.field = JoinList(creators)
	}
}

// GenreList returns Genre as a list.
func (c *ComicInfo) GenreList() []string { return SplitList(c.Genre) }

// SetGenreList replaces Genre.
func (c *ComicInfo) SetGenreList(items []string) { c.Genre = JoinList(items) }

// CharacterList returns Characters as a list.
func (c *ComicInfo) CharacterList() []string { return SplitList(c.Characters) }

// SetCharacterList replaces Characters.
func (c *ComicInfo) SetCharacterList(items []string) { c.Characters = JoinList(items) }

// TeamList returns Teams as a list.
func (c *ComicInfo) TeamList() []string { return SplitList(c.Teams) }

// SetTeamList replaces Teams.
func (c *ComicInfo) SetTeamList(items []string) { c.Teams = JoinList(items) }

// LocationList returns Locations as a list.
func (c *ComicInfo) LocationList() []string { return SplitList(c.Locations) }

// SetLocationList replaces Locations.
func (c *ComicInfo) SetLocationList(items []string) { c.Locations = JoinList(items) }

// StoryArcList returns StoryArc as a list.
func (c *ComicInfo) StoryArcList() []string { return SplitList(c.StoryArc) }

// SetStoryArcList replaces StoryArc.
func (c *ComicInfo) SetStoryArcList(items []string) { c.StoryArc = JoinList(items) }
