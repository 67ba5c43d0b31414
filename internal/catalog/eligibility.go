package catalog

import (
	"strings"

	"stationery-admin/internal/models"
)

// Normalize collapses a course/branch string to a comparable key:
// lowercase, keep only [a-z0-9]. "B.Tech", "b tech" and "btech" all
// normalize to "btech".
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsAddOn reports whether a product is offered outside any course mapping.
// The classification is purely "is for_course empty" - add-ons are visible
// to every student regardless of their kit.
func IsAddOn(p models.Product) bool {
	return p.ForCourse == ""
}

// Matches reports whether a single product is visible to a student.
// Every constraint on the product must be empty or satisfied:
//   - for_course: empty, or equals the student's course after normalization
//   - years: empty, or contains the student's year
//   - branches: empty, or contains the student's branch (normalized)
//   - semesters: empty, or contains the student's semester
func Matches(p models.Product, st models.Student) bool {
	if p.ForCourse != "" && Normalize(p.ForCourse) != Normalize(st.Course) {
		return false
	}
	if len(p.Years) > 0 && !containsInt(p.Years, st.Year) {
		return false
	}
	if len(p.Branches) > 0 && !containsBranch(p.Branches, st.Branch) {
		return false
	}
	if len(p.Semesters) > 0 && !containsInt(p.Semesters, st.Semester) {
		return false
	}
	return true
}

// VisibleProducts filters the catalog down to what a student may be issued.
func VisibleProducts(catalog []models.Product, st models.Student) []models.Product {
	var visible []models.Product
	for _, p := range catalog {
		if Matches(p, st) {
			visible = append(visible, p)
		}
	}
	return visible
}

func containsInt(list []int, v int) bool {
	for _, n := range list {
		if n == v {
			return true
		}
	}
	return false
}

func containsBranch(list []string, branch string) bool {
	key := Normalize(branch)
	for _, b := range list {
		if Normalize(b) == key {
			return true
		}
	}
	return false
}
