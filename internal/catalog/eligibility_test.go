package catalog

import (
	"testing"

	"stationery-admin/internal/models"
)

func TestNormalizeEquivalence(t *testing.T) {
	variants := []string{"B.Tech", "btech", " B TECH ", "b-tech", "B_Tech"}
	for _, v := range variants {
		if got := Normalize(v); got != "btech" {
			t.Fatalf("Normalize(%q) = %q, want %q", v, got, "btech")
		}
	}

	if got := Normalize("M.Sc (Hons) 2024"); got != "mschons2024" {
		t.Fatalf("Normalize kept unexpected characters: %q", got)
	}
}

func TestUnconstrainedProductVisibleToEveryone(t *testing.T) {
	catalog := []models.Product{{ID: 1, Name: "Ruler"}}
	students := []models.Student{
		{Course: "b.tech", Year: 1, Branch: "CSE", Semester: 1},
		{Course: "diploma", Year: 3, Branch: "Civil", Semester: 6},
		{},
	}
	for _, st := range students {
		if got := VisibleProducts(catalog, st); len(got) != 1 {
			t.Fatalf("unconstrained product hidden from student %+v", st)
		}
	}
}

func TestCourseYearBranchSemesterConstraints(t *testing.T) {
	p := models.Product{
		ID:        2,
		Name:      "Drawing Kit",
		ForCourse: "B.Tech",
		Years:     []int{1, 2},
		Branches:  []string{"CSE", "ECE"},
		Semesters: []int{1, 2, 3, 4},
	}

	match := models.Student{Course: "btech", Year: 2, Branch: "c.s.e", Semester: 3}
	if !Matches(p, match) {
		t.Fatalf("expected student %+v to match product constraints", match)
	}

	cases := []struct {
		name    string
		student models.Student
	}{
		{"wrong course", models.Student{Course: "mba", Year: 1, Branch: "CSE", Semester: 1}},
		{"wrong year", models.Student{Course: "btech", Year: 3, Branch: "CSE", Semester: 1}},
		{"wrong branch", models.Student{Course: "btech", Year: 1, Branch: "Civil", Semester: 1}},
		{"wrong semester", models.Student{Course: "btech", Year: 1, Branch: "CSE", Semester: 7}},
	}
	for _, tc := range cases {
		if Matches(p, tc.student) {
			t.Errorf("%s: expected no match for %+v", tc.name, tc.student)
		}
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	catalog := []models.Product{
		{ID: 1, Name: "Notebook", ForCourse: "b.tech"},
		{ID: 2, Name: "Pen"},
		{ID: 3, Name: "Lab Coat", ForCourse: "mbbs"},
	}
	st := models.Student{Course: "B.Tech", Year: 1}

	once := VisibleProducts(catalog, st)
	twice := VisibleProducts(once, st)

	if len(once) != 2 || len(twice) != len(once) {
		t.Fatalf("filtering twice changed the result: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("product order changed on second filter")
		}
	}
}

func TestAddOnClassification(t *testing.T) {
	if !IsAddOn(models.Product{Name: "Eraser"}) {
		t.Fatalf("product with empty for_course should be an add-on")
	}
	if IsAddOn(models.Product{Name: "Record Book", ForCourse: "b.tech"}) {
		t.Fatalf("course-mapped product should not be an add-on")
	}
}
