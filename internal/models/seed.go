package models

import "time"

const day = 24 * time.Hour

// DefaultTags is the catalog of tags offered to admins when editing a listing
var DefaultTags = []string{
	"AI", "Web3", "Machine Learning", "Blockchain", "Open Source",
	"Student", "FinTech", "HealthTech", "GameDev", "Cloud", "Cybersecurity",
}

// SeedHackathons returns the example collection that is stored when the storage is still empty. All dates are
// relative to the given point in time.
func SeedHackathons(now time.Time) []Hackathon {
	return []Hackathon{
		{
			ID:   "seed_1",
			Slug: "global-ai-challenge-2024",
			HackathonInput: HackathonInput{
				Title:     "Global AI Challenge 2024",
				Organizer: "TechFlow Inc.",
				Description: "Build the next generation of AI agents. Join developers from around the world to solve " +
					"complex problems using Generative AI.\n\n### Challenges\n1. Healthcare Agents\n" +
					"2. Financial Forecasting\n3. Creative Arts",
				Mode:                 ModeOnline,
				StartDate:            now.Add(2 * day),
				EndDate:              now.Add(5 * day),
				RegistrationDeadline: now.Add(day),
				Prize:                "$50,000 USD",
				Tags:                 []string{"AI", "Machine Learning", "Generative AI"},
				RegistrationLink:     "https://example.com/register",
				SourceURL:            "https://example.com/hackathons/ai-2024",
				SourceType:           SourceManual,
				Status:               StatusPublished,
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:   "seed_2",
			Slug: "web3-builders-summit",
			HackathonInput: HackathonInput{
				Title:     "Web3 Builders Summit",
				Organizer: "DeFi Alliance",
				Description: "Create decentralized applications for the future of finance. Focus on Ethereum and " +
					"Solana ecosystems.",
				Mode:                 ModeHybrid,
				StartDate:            now.Add(10 * day),
				EndDate:              now.Add(12 * day),
				RegistrationDeadline: now.Add(8 * day),
				Prize:                "20 ETH + $10k",
				Tags:                 []string{"Web3", "Blockchain", "DeFi"},
				RegistrationLink:     "https://example.com/register-web3",
				SourceURL:            "https://example.com/web3",
				SourceType:           SourceManual,
				Status:               StatusDraft,
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:   "seed_3",
			Slug: "student-code-fest",
			HackathonInput: HackathonInput{
				Title:                "Student Code Fest",
				Organizer:            "University DAO",
				Description:          "A beginner friendly hackathon for university students. No prior experience required.",
				Mode:                 ModeOffline,
				StartDate:            now.Add(-5 * day),
				EndDate:              now.Add(-2 * day),
				RegistrationDeadline: now.Add(-6 * day),
				Prize:                "Internship Opportunities",
				Tags:                 []string{"Student", "Beginner", "Education"},
				RegistrationLink:     "https://example.com/student",
				SourceURL:            "https://example.com/u-dao",
				SourceType:           SourceManual,
				Status:               StatusExpired,
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
