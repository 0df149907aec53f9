package models

import "strings"

// User is a student, teacher or administrator account.
type User struct {
	Deletable
	Username   string
	Email      string
	FirstName  string
	LastName   string
	UserType   UserType
	School     Ref
	RollNumber string
	Class      Ref
	TotalExp   int
	Rewards    int
	Level      Ref
}

// NewUser builds a user from a loose record. Users default to students.
func NewUser(r Record) *User {
	u := &User{Deletable: newDeletable(r), UserType: UserTypeStudent}
	u.assign(r)
	return u
}

func (u *User) assign(r Record) {
	r.str("username", &u.Username)
	r.str("email", &u.Email)
	r.str("first_name", &u.FirstName)
	r.str("last_name", &u.LastName)
	if r.has("user_type") {
		var t string
		r.str("user_type", &t)
		u.UserType = UserType(t)
	}
	r.ref("school", &u.School)
	r.str("roll_number", &u.RollNumber)
	r.ref("student_class", &u.Class)
	r.integer("total_exp", &u.TotalExp)
	r.integer("rewards", &u.Rewards)
	r.ref("level", &u.Level)
}

// Update applies the fields present in r and touches the user.
func (u *User) Update(r Record) {
	u.assign(r)
	u.Touch()
}

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Username
	}
	return name
}

func (u *User) IsStudent() bool { return u.UserType == UserTypeStudent }
func (u *User) IsTeacher() bool { return u.UserType == UserTypeTeacher }
func (u *User) IsAdmin() bool   { return u.UserType == UserTypeAdmin }

func (u *User) SchoolID() string { return u.School.ID() }
func (u *User) ClassID() string  { return u.Class.ID() }
func (u *User) LevelID() string  { return u.Level.ID() }

// AddExperience adds points to the running total.
func (u *User) AddExperience(points int) {
	u.TotalExp += points
	u.Touch()
}

// AddRewards adds reward points.
func (u *User) AddRewards(points int) {
	u.Rewards += points
	u.Touch()
}

// SetLevel replaces the level reference with an id or a hydrated level.
func (u *User) SetLevel(level interface{}) {
	u.Level = RefOf(level)
	u.Touch()
}

func (u *User) Validate() ValidationResult {
	student := u.UserType == UserTypeStudent
	rs := ruleSet{
		required("username", u.Username, "Username is required"),
		maxLength("username", u.Username, 150, "Username"),
		required("email", u.Email, "Email is required"),
		email("email", u.Email),
	}
	rs = append(rs, choice("user_type", string(u.UserType), UserTypeChoices, "User type")...)
	rs = append(rs,
		when(student, required("roll_number", u.RollNumber, "Roll number is required for students")),
		check("roll_number", "Roll number is only allowed for students", !student && !blank(u.RollNumber)),
		nonNegative("total_exp", float64(u.TotalExp), "Total experience"),
		nonNegative("rewards", float64(u.Rewards), "Rewards"),
	)
	return rs.evaluate()
}

func (u *User) Serialize() Record {
	out := Record{
		"username":      u.Username,
		"email":         u.Email,
		"first_name":    u.FirstName,
		"last_name":     u.LastName,
		"user_type":     string(u.UserType),
		"school":        u.School.Value(),
		"roll_number":   u.RollNumber,
		"student_class": u.Class.Value(),
		"total_exp":     u.TotalExp,
		"rewards":       u.Rewards,
		"level":         u.Level.Value(),
	}
	u.Deletable.serialize(out)
	return out
}

func (u *User) MarshalJSON() ([]byte, error) { return marshalEntity(u) }

func (u *User) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*u = *NewUser(r)
	return nil
}
