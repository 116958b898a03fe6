package domain

import "testing"

func TestFormatAddressSkipsEmptyParts(t *testing.T) {
	loc := &Location{
		City:    "Nablus",
		Country: "Palestine",
	}
	if got := FormatAddress(loc, LanguageEnglish); got != "Nablus, Palestine" {
		t.Fatalf("unexpected address %q", got)
	}
}

func TestFormatAddressFullHierarchy(t *testing.T) {
	loc := &Location{
		Village: "Beit Furik",
		City:    "Nablus",
		Area:    "West Bank",
		Country: "Palestine",
	}
	want := "Beit Furik, Nablus, West Bank, Palestine"
	if got := FormatAddress(loc, LanguageEnglish); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatAddressArabic(t *testing.T) {
	loc := &Location{
		CityAr:    "نابلس",
		CountryAr: "فلسطين",
	}
	if got := FormatAddress(loc, LanguageArabic); got != "نابلس, فلسطين" {
		t.Fatalf("unexpected address %q", got)
	}
}

func TestFormatAddressNotAvailable(t *testing.T) {
	if got := FormatAddress(nil, LanguageEnglish); got != "N/A" {
		t.Fatalf("expected N/A, got %q", got)
	}
	if got := FormatAddress(&Location{}, LanguageArabic); got != "غير متوفر" {
		t.Fatalf("unexpected fallback %q", got)
	}
}

func TestFormatAddressCollapsesStraySeparators(t *testing.T) {
	loc := &Location{
		City:    ",Nablus,",
		Country: " Palestine ",
	}
	if got := FormatAddress(loc, LanguageEnglish); got != "Nablus, Palestine" {
		t.Fatalf("unexpected address %q", got)
	}
}

func TestFormatTrip(t *testing.T) {
	from := &Location{City: "Nablus", Country: "Palestine"}
	to := &Location{City: "Ramallah", Country: "Palestine"}

	want := "From: Nablus, Palestine → To: Ramallah, Palestine"
	if got := FormatTrip(from, to, LanguageEnglish); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if got := FormatTrip(nil, to, LanguageEnglish); got != "From: N/A → To: Ramallah, Palestine" {
		t.Fatalf("unexpected trip format %q", got)
	}
}
