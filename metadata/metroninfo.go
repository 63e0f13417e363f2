// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package metadata

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// DefaultSeriesLang is the series language when the document omits it.
const DefaultSeriesLang = "en"

// MetronInfo is the MetronInfo.xml v1.0 document. Elements follow schema order.
type MetronInfo struct {
	XMLName        xml.Name `xml:"MetronInfo"`
	XSI            string   `xml:"xmlns:xsi,attr,omitempty"`
	SchemaLocation string   `xml:"xsi:noNamespaceSchemaLocation,attr,omitempty"`

	IDs             []ID            `xml:"IDS>ID,omitempty"`
	Publisher       *Publisher      `xml:"Publisher,omitempty"`
	Series          Series          `xml:"Series"`
	MangaVolume     string          `xml:"MangaVolume,omitempty"`
	CollectionTitle string          `xml:"CollectionTitle,omitempty"`
	Number          string          `xml:"Number,omitempty"`
	Stories         []Resource      `xml:"Stories>Story,omitempty"`
	Summary         string          `xml:"Summary,omitempty"`
	Notes           string          `xml:"Notes,omitempty"`
	Prices          []Price         `xml:"Prices>Price,omitempty"`
	CoverDate       *Date           `xml:"CoverDate,omitempty"`
	StoreDate       *Date           `xml:"StoreDate,omitempty"`
	PageCount       int             `xml:"PageCount,omitempty"`
	Genres          []Resource      `xml:"Genres>Genre,omitempty"`
	Tags            []Resource      `xml:"Tags>Tag,omitempty"`
	Arcs            []Arc           `xml:"Arcs>Arc,omitempty"`
	Characters      []Resource      `xml:"Characters>Character,omitempty"`
	Teams           []Resource      `xml:"Teams>Team,omitempty"`
	Universes       []Universe      `xml:"Universes>Universe,omitempty"`
	Locations       []Resource      `xml:"Locations>Location,omitempty"`
	Reprints        []Resource      `xml:"Reprints>Reprint,omitempty"`
	GTIN            *GTIN           `xml:"GTIN,omitempty"`
	AgeRating       MetronAgeRating `xml:"AgeRating,omitempty"`
	URLs            []URL           `xml:"URLs>URL,omitempty"`
	Credits         []Credit        `xml:"Credits>Credit,omitempty"`
	LastModified    *time.Time      `xml:"LastModified,omitempty"`
}

// Resource is a named value with an optional catalog id.
type Resource struct {
	ID    string `xml:"id,attr,omitempty"`
	Value string `xml:",chardata"`
}

// ID is a catalog identifier of the issue.
type ID struct {
	Source  InformationSource `xml:"source,attr"`
	Primary bool              `xml:"primary,attr,omitempty"`
	Value   string            `xml:",chardata"`
}

// Publisher is the issue publisher with an optional imprint.
type Publisher struct {
	ID      string    `xml:"id,attr,omitempty"`
	Name    string    `xml:"Name"`
	Imprint *Resource `xml:"Imprint,omitempty"`
}

// AlternativeName is another title of the series.
type AlternativeName struct {
	ID    string `xml:"id,attr,omitempty"`
	Lang  string `xml:"lang,attr,omitempty"`
	Value string `xml:",chardata"`
}

// Series describes the series the issue belongs to.
type Series struct {
	ID               string            `xml:"id,attr,omitempty"`
	Lang             string            `xml:"lang,attr,omitempty"`
	Name             string            `xml:"Name"`
	SortName         string            `xml:"SortName,omitempty"`
	Volume           int               `xml:"Volume,omitempty"`
	IssueCount       int               `xml:"IssueCount,omitempty"`
	VolumeCount      int               `xml:"VolumeCount,omitempty"`
	Format           Format            `xml:"Format,omitempty"`
	StartYear        int               `xml:"StartYear,omitempty"`
	AlternativeNames []AlternativeName `xml:"AlternativeNames>AlternativeName,omitempty"`
}

// Price is the cover price in one country. Value keeps the decimal text.
type Price struct {
	Country string `xml:"country,attr"`
	Value   string `xml:",chardata"`
}

// Arc is a story arc and the issue position in it.
type Arc struct {
	ID     string `xml:"id,attr,omitempty"`
	Name   string `xml:"Name"`
	Number int    `xml:"Number,omitempty"`
}

// Universe is a continuity the issue takes place in.
type Universe struct {
	ID          string `xml:"id,attr,omitempty"`
	Name        string `xml:"Name"`
	Designation string `xml:"Designation,omitempty"`
}

// GTIN holds trade identifiers.
type GTIN struct {
	ISBN string `xml:"ISBN,omitempty"`
	UPC  string `xml:"UPC,omitempty"`
}

// URL is a web page about the issue.
type URL struct {
	Primary bool   `xml:"primary,attr,omitempty"`
	Value   string `xml:",chardata"`
}

// RoleResource is a credit role with an optional catalog id.
type RoleResource struct {
	ID    string `xml:"id,attr,omitempty"`
	Value Role   `xml:",chardata"`
}

// Credit lists the roles of one creator.
type Credit struct {
	Creator Resource       `xml:"Creator"`
	Roles   []RoleResource `xml:"Roles>Role,omitempty"`
}

// ParseMetronInfo decodes a MetronInfo document. Empty input returns (nil, nil).
// A document without a series name is invalid.
func ParseMetronInfo(data []byte) (*MetronInfo, error) {
	var info MetronInfo
	absent, err := unmarshalDocument(data, &info)
	if absent || err != nil {
		return nil, err
	}

	info.normalize()
	if info.Series.Name == "" {
		return nil, fmt.Errorf("%w: series name is required", ErrInvalidMetadata)
	}
	if info.Publisher != nil && info.Publisher.Name == "" {
		return nil, fmt.Errorf("%w: publisher name is required", ErrInvalidMetadata)
	}

	return &info, nil
}

// normalize trims text and applies attribute defaults.
func (m *MetronInfo) normalize() {
	m.Series.Name = strings.TrimSpace(m.Series.Name)
	m.Series.SortName = strings.TrimSpace(m.Series.SortName)
	if m.Series.Lang == "" {
		m.Series.Lang = DefaultSeriesLang
	}
	for i := range m.Series.AlternativeNames {
		if m.Series.AlternativeNames[i].Lang == "" {
			m.Series.AlternativeNames[i].Lang = DefaultSeriesLang
		}
	}

	if m.Publisher != nil {
		m.Publisher.Name = strings.TrimSpace(m.Publisher.Name)
	}

	m.Number = strings.TrimSpace(m.Number)
	m.CollectionTitle = strings.TrimSpace(m.CollectionTitle)
}

// Filename implements Record.
func (*MetronInfo) Filename() string {
	return MetronInfoFilename
}

// SeriesFormat implements Record.
func (m *MetronInfo) SeriesFormat() string {
	return string(m.Series.Format)
}

// Marshal implements Record.
func (m *MetronInfo) Marshal() ([]byte, error) {
	out := *m
	out.XSI = xsiNamespace
	out.SchemaLocation = MetronInfoSchema
	return marshalDocument(&out)
}

// ResolveField implements naming.Resolver.
func (m *MetronInfo) ResolveField(key string) (any, bool) {
	return metronInfoFields.Resolve(m, key)
}

func (*MetronInfo) sealed() {}

// PrimaryID returns the primary catalog id, falling back to the Metron id.
func (m *MetronInfo) PrimaryID() *ID {
	for i := range m.IDs {
		if m.IDs[i].Primary {
			return &m.IDs[i]
		}
	}

	return m.SourceID(SourceMetron)
}

// SourceID returns the id assigned by source or nil.
func (m *MetronInfo) SourceID(source InformationSource) *ID {
	for i := range m.IDs {
		if m.IDs[i].Source == source {
			return &m.IDs[i]
		}
	}

	return nil
}

// HasRole reports whether the credit includes role.
func (c Credit) HasRole(role Role) bool {
	for _, r := range c.Roles {
		if r.Value == role {
			return true
		}
	}

	return false
}
