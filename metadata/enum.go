// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package metadata

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
)

// enumKey folds case and drops spaces so "trade paperback" matches "Trade Paperback".
func enumKey(value string) string {
	return cases.Fold().String(strings.ReplaceAll(strings.TrimSpace(value), " ", ""))
}

// matchEnum finds the canonical spelling of raw among values.
func matchEnum[T ~string](raw string, values []T) (T, bool) {
	key := enumKey(raw)
	for _, v := range values {
		if enumKey(string(v)) == key {
			return v, true
		}
	}

	var zero T
	return zero, false
}

// loadLenient matches raw or logs a warning and returns fallback.
// Used for ComicInfo enums, where unknown values are tolerated.
func loadLenient[T ~string](raw string, values []T, fallback T, name string) T {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if v, ok := matchEnum(raw, values); ok {
		return v
	}

	slog.Warn("invalid enum value", slog.String("type", name), slog.String("value", raw))
	return fallback
}

// loadStrict matches raw or fails. Used for MetronInfo enums.
func loadStrict[T ~string](raw string, values []T, name string) (T, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	if v, ok := matchEnum(raw, values); ok {
		return v, nil
	}

	var zero T
	return zero, fmt.Errorf("%q isn't a valid %s", raw, name)
}

// YesNo is the ComicInfo tri-state flag.
type YesNo string

// YesNo values.
const (
	YesNoUnknown YesNo = "Unknown"
	YesNoNo      YesNo = "No"
	YesNoYes     YesNo = "Yes"
)

var yesNoValues = []YesNo{YesNoUnknown, YesNoNo, YesNoYes}

// ParseYesNo matches value case-insensitively; unknown input yields YesNoUnknown.
func ParseYesNo(value string) YesNo {
	return loadLenient(value, yesNoValues, YesNoUnknown, "YesNo")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *YesNo) UnmarshalText(text []byte) error {
	*v = ParseYesNo(string(text))
	return nil
}

// Manga marks manga and reading direction.
type Manga string

// Manga values.
const (
	MangaUnknown           Manga = "Unknown"
	MangaNo                Manga = "No"
	MangaYes               Manga = "Yes"
	MangaYesAndRightToLeft Manga = "YesAndRightToLeft"
)

var mangaValues = []Manga{MangaUnknown, MangaNo, MangaYes, MangaYesAndRightToLeft}

// ParseManga matches value case-insensitively; unknown input yields MangaUnknown.
func ParseManga(value string) Manga {
	return loadLenient(value, mangaValues, MangaUnknown, "Manga")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Manga) UnmarshalText(text []byte) error {
	*v = ParseManga(string(text))
	return nil
}

// ComicAgeRating is the ComicInfo age rating.
type ComicAgeRating string

// ComicAgeRating values.
const (
	ComicAgeRatingUnknown       ComicAgeRating = "Unknown"
	ComicAgeRatingAdultsOnly    ComicAgeRating = "Adults Only 18+"
	ComicAgeRatingEarlyChild    ComicAgeRating = "Early Childhood"
	ComicAgeRatingEveryone      ComicAgeRating = "Everyone"
	ComicAgeRatingEveryone10    ComicAgeRating = "Everyone 10+"
	ComicAgeRatingG             ComicAgeRating = "G"
	ComicAgeRatingKidsToAdults  ComicAgeRating = "Kids to Adults"
	ComicAgeRatingM             ComicAgeRating = "M"
	ComicAgeRatingMA15          ComicAgeRating = "MA15+"
	ComicAgeRatingMature17      ComicAgeRating = "Mature 17+"
	ComicAgeRatingPG            ComicAgeRating = "PG"
	ComicAgeRatingR18           ComicAgeRating = "R18+"
	ComicAgeRatingRatingPending ComicAgeRating = "Rating Pending"
	ComicAgeRatingTeen          ComicAgeRating = "Teen"
	ComicAgeRatingX18           ComicAgeRating = "X18+"
)

var comicAgeRatingValues = []ComicAgeRating{
	ComicAgeRatingUnknown, ComicAgeRatingAdultsOnly, ComicAgeRatingEarlyChild,
	ComicAgeRatingEveryone, ComicAgeRatingEveryone10, ComicAgeRatingG,
	ComicAgeRatingKidsToAdults, ComicAgeRatingM, ComicAgeRatingMA15,
	ComicAgeRatingMature17, ComicAgeRatingPG, ComicAgeRatingR18,
	ComicAgeRatingRatingPending, ComicAgeRatingTeen, ComicAgeRatingX18,
}

// ParseComicAgeRating matches value case-insensitively; unknown input yields ComicAgeRatingUnknown.
func ParseComicAgeRating(value string) ComicAgeRating {
	return loadLenient(value, comicAgeRatingValues, ComicAgeRatingUnknown, "AgeRating")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *ComicAgeRating) UnmarshalText(text []byte) error {
	*v = ParseComicAgeRating(string(text))
	return nil
}

// PageType classifies a ComicInfo page.
type PageType string

// PageType values.
const (
	PageFrontCover    PageType = "FrontCover"
	PageInnerCover    PageType = "InnerCover"
	PageRoundup       PageType = "Roundup"
	PageStory         PageType = "Story"
	PageAdvertisement PageType = "Advertisement"
	PageEditorial     PageType = "Editorial"
	PageLetters       PageType = "Letters"
	PagePreview       PageType = "Preview"
	PageBackCover     PageType = "BackCover"
	PageOther         PageType = "Other"
	PageDeleted       PageType = "Deleted"
)

var pageTypeValues = []PageType{
	PageFrontCover, PageInnerCover, PageRoundup, PageStory, PageAdvertisement,
	PageEditorial, PageLetters, PagePreview, PageBackCover, PageOther, PageDeleted,
}

// ParsePageType matches value case-insensitively; unknown input yields PageOther.
func ParsePageType(value string) PageType {
	return loadLenient(value, pageTypeValues, PageOther, "PageType")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *PageType) UnmarshalText(text []byte) error {
	*v = ParsePageType(string(text))
	return nil
}

// MetronAgeRating is the MetronInfo age rating.
type MetronAgeRating string

// MetronAgeRating values.
const (
	MetronAgeRatingUnknown  MetronAgeRating = "Unknown"
	MetronAgeRatingEveryone MetronAgeRating = "Everyone"
	MetronAgeRatingTeen     MetronAgeRating = "Teen"
	MetronAgeRatingTeenPlus MetronAgeRating = "Teen Plus"
	MetronAgeRatingMature   MetronAgeRating = "Mature"
	MetronAgeRatingExplicit MetronAgeRating = "Explicit"
	MetronAgeRatingAdult    MetronAgeRating = "Adult"
)

var metronAgeRatingValues = []MetronAgeRating{
	MetronAgeRatingUnknown, MetronAgeRatingEveryone, MetronAgeRatingTeen,
	MetronAgeRatingTeenPlus, MetronAgeRatingMature, MetronAgeRatingExplicit,
	MetronAgeRatingAdult,
}

// ParseMetronAgeRating matches value case-insensitively.
func ParseMetronAgeRating(value string) (MetronAgeRating, error) {
	return loadStrict(value, metronAgeRatingValues, "AgeRating")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *MetronAgeRating) UnmarshalText(text []byte) (err error) {
	*v, err = ParseMetronAgeRating(string(text))
	return err
}

// Format is the MetronInfo series format.
type Format string

// Format values.
const (
	FormatAnnual         Format = "Annual"
	FormatDigitalChapter Format = "Digital Chapter"
	FormatGraphicNovel   Format = "Graphic Novel"
	FormatHardcover      Format = "Hardcover"
	FormatLimitedSeries  Format = "Limited Series"
	FormatOmnibus        Format = "Omnibus"
	FormatOneShot        Format = "One-Shot"
	FormatSingleIssue    Format = "Single Issue"
	FormatTradePaperback Format = "Trade Paperback"
)

var formatValues = []Format{
	FormatAnnual, FormatDigitalChapter, FormatGraphicNovel, FormatHardcover,
	FormatLimitedSeries, FormatOmnibus, FormatOneShot, FormatSingleIssue,
	FormatTradePaperback,
}

// ParseFormat matches value case-insensitively.
func ParseFormat(value string) (Format, error) {
	return loadStrict(value, formatValues, "Format")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Format) UnmarshalText(text []byte) (err error) {
	*v, err = ParseFormat(string(text))
	return err
}

// InformationSource names an external catalog.
type InformationSource string

// InformationSource values.
const (
	SourceAniList             InformationSource = "AniList"
	SourceComicVine           InformationSource = "Comic Vine"
	SourceGrandComicsDatabase InformationSource = "Grand Comics Database"
	SourceKitsu               InformationSource = "Kitsu"
	SourceMangaDex            InformationSource = "MangaDex"
	SourceMangaUpdates        InformationSource = "MangaUpdates"
	SourceMarvel              InformationSource = "Marvel"
	SourceMetron              InformationSource = "Metron"
	SourceMyAnimeList         InformationSource = "MyAnimeList"
	SourceLeagueOfComicGeeks  InformationSource = "League of Comic Geeks"
)

var informationSourceValues = []InformationSource{
	SourceAniList, SourceComicVine, SourceGrandComicsDatabase, SourceKitsu,
	SourceMangaDex, SourceMangaUpdates, SourceMarvel, SourceMetron,
	SourceMyAnimeList, SourceLeagueOfComicGeeks,
}

// ParseInformationSource matches value case-insensitively.
func ParseInformationSource(value string) (InformationSource, error) {
	return loadStrict(value, informationSourceValues, "InformationSource")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *InformationSource) UnmarshalText(text []byte) (err error) {
	*v, err = ParseInformationSource(string(text))
	return err
}

// Role is a MetronInfo creator role.
type Role string

// Role values.
const (
	RoleWriter               Role = "Writer"
	RoleScript               Role = "Script"
	RoleStory                Role = "Story"
	RolePlot                 Role = "Plot"
	RoleInterviewer          Role = "Interviewer"
	RoleArtist               Role = "Artist"
	RolePenciller            Role = "Penciller"
	RoleBreakdowns           Role = "Breakdowns"
	RoleIllustrator          Role = "Illustrator"
	RoleLayouts              Role = "Layouts"
	RoleInker                Role = "Inker"
	RoleEmbellisher          Role = "Embellisher"
	RoleFinishes             Role = "Finishes"
	RoleInkAssists           Role = "Ink Assists"
	RoleColorist             Role = "Colorist"
	RoleColorSeparations     Role = "Color Separations"
	RoleColorAssists         Role = "Color Assists"
	RoleColorFlats           Role = "Color Flats"
	RoleDigitalArtTechnician Role = "Digital Art Technician"
	RoleGrayTone             Role = "Gray Tone"
	RoleLetterer             Role = "Letterer"
	RoleCover                Role = "Cover"
	RoleEditor               Role = "Editor"
	RoleConsultingEditor     Role = "Consulting Editor"
	RoleAssistantEditor      Role = "Assistant Editor"
	RoleAssociateEditor      Role = "Associate Editor"
	RoleGroupEditor          Role = "Group Editor"
	RoleSeniorEditor         Role = "Senior Editor"
	RoleManagingEditor       Role = "Managing Editor"
	RoleCollectionEditor     Role = "Collection Editor"
	RoleProduction           Role = "Production"
	RoleDesigner             Role = "Designer"
	RoleLogoDesign           Role = "Logo Design"
	RoleTranslator           Role = "Translator"
	RoleSupervisingEditor    Role = "Supervising Editor"
	RoleExecutiveEditor      Role = "Executive Editor"
	RoleEditorInChief        Role = "Editor In Chief"
	RolePresident            Role = "President"
	RolePublisher            Role = "Publisher"
	RoleChiefCreativeOfficer Role = "Chief Creative Officer"
	RoleExecutiveProducer    Role = "Executive Producer"
	RoleOther                Role = "Other"
)

var roleValues = []Role{
	RoleWriter, RoleScript, RoleStory, RolePlot, RoleInterviewer, RoleArtist,
	RolePenciller, RoleBreakdowns, RoleIllustrator, RoleLayouts, RoleInker,
	RoleEmbellisher, RoleFinishes, RoleInkAssists, RoleColorist,
	RoleColorSeparations, RoleColorAssists, RoleColorFlats,
	RoleDigitalArtTechnician, RoleGrayTone, RoleLetterer, RoleCover, RoleEditor,
	RoleConsultingEditor, RoleAssistantEditor, RoleAssociateEditor,
	RoleGroupEditor, RoleSeniorEditor, RoleManagingEditor,
	RoleCollectionEditor, RoleProduction, RoleDesigner, RoleLogoDesign,
	RoleTranslator, RoleSupervisingEditor, RoleExecutiveEditor,
	RoleEditorInChief, RolePresident, RolePublisher, RoleChiefCreativeOfficer,
	RoleExecutiveProducer, RoleOther,
}

// ParseRole matches value case-insensitively.
func ParseRole(value string) (Role, error) {
	return loadStrict(value, roleValues, "Role")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Role) UnmarshalText(text []byte) (err error) {
	*v, err = ParseRole(string(text))
	return err
}
