package repository

import (
	"strings"
	"testing"
	"time"
)

func TestBuildRideSearchQueryEmptyFilter(t *testing.T) {
	query, args := buildRideSearchQuery(RideFilter{}, 10, 0)

	if !strings.Contains(query, "WHERE is_active = true") {
		t.Errorf("query should restrict to active rides: %s", query)
	}
	if !strings.Contains(query, "ORDER BY departure_time ASC") {
		t.Errorf("query should sort by departure: %s", query)
	}
	// Only limit and offset bound
	if len(args) != 2 {
		t.Errorf("args = %d, want 2 (limit, offset)", len(args))
	}
	if args[0] != 10 || args[1] != 0 {
		t.Errorf("limit/offset args = %v, want [10 0]", args)
	}
}

func TestBuildRideSearchQueryMaxPriceInclusive(t *testing.T) {
	maxPrice := 10.0
	query, args := buildRideSearchQuery(RideFilter{MaxPrice: &maxPrice}, 10, 0)

	if !strings.Contains(query, "price_per_seat <= $1") {
		t.Errorf("max price must be an inclusive bound: %s", query)
	}
	if args[0] != 10.0 {
		t.Errorf("first arg = %v, want 10.0", args[0])
	}
}

func TestBuildRideSearchQuerySubstringMatch(t *testing.T) {
	query, args := buildRideSearchQuery(RideFilter{Origin: "alma", Destination: "asta"}, 10, 0)

	if !strings.Contains(query, "origin ILIKE $1") {
		t.Errorf("origin should be a case-insensitive substring match: %s", query)
	}
	if !strings.Contains(query, "destination ILIKE $2") {
		t.Errorf("destination should be a case-insensitive substring match: %s", query)
	}
	if args[0] != "%alma%" || args[1] != "%asta%" {
		t.Errorf("args = %v, want wrapped in wildcards", args[:2])
	}
}

func TestBuildRideSearchQueryPlaceholderOrder(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	minSeats := 2
	maxPrice := 25.0
	accepts := true

	filter := RideFilter{
		Origin:         "Almaty",
		Destination:    "Astana",
		DateFrom:       &date,
		MinSeats:       &minSeats,
		MaxPrice:       &maxPrice,
		AcceptsParcels: &accepts,
	}

	query, args := buildRideSearchQuery(filter, 5, 10)

	// 6 filter args plus limit and offset
	if len(args) != 8 {
		t.Fatalf("args = %d, want 8", len(args))
	}
	for i := 1; i <= len(args); i++ {
		placeholder := "$" + string(rune('0'+i))
		if !strings.Contains(query, placeholder) {
			t.Errorf("query missing placeholder %s: %s", placeholder, query)
		}
	}
	if args[len(args)-2] != 5 || args[len(args)-1] != 10 {
		t.Errorf("trailing args = %v, want limit 5 offset 10", args[len(args)-2:])
	}
}
