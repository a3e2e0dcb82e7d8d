package store

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"jobboard/internal/common/logger"
	"jobboard/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

var baseTime = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func testLogger(t *testing.T) logger.Logger {
	return logger.NewTestLogger(t)
}

func sampleJob(title, location string, ageHours int, skills ...string) models.Job {
	if skills == nil {
		skills = []string{}
	}
	return models.Job{
		ID:             uuid.New(),
		Title:          title,
		Company:        "Acme",
		Location:       location,
		Description:    title + " description",
		Skills:         skills,
		EmploymentType: models.EmploymentFullTime,
		PostedDate:     baseTime.Add(-time.Duration(ageHours) * time.Hour),
	}
}

func sampleJobs() []models.Job {
	return []models.Job{
		sampleJob("Software Development Engineer", "Bengaluru, India", 5, "java", "spring boot", "aws", "sql"),
		sampleJob("QA Automation Engineer", "Pune, India", 1, "selenium", "java", "python"),
		sampleJob("AI Engineer", "Bengaluru, India", 2, "python", "pytorch", "aws", "docker"),
	}
}
