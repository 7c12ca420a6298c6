package assembly

import (
	"fmt"

	"github.com/matzehuels/kinetree/pkg/errors"
)

// Validate checks that names are valid and unique and that every joint
// references existing parts. It does not inspect connectivity; cycles and
// disconnected parts are the graph's concern.
func Validate(a *Assembly) error {
	if a == nil {
		return errors.New(errors.ErrCodeInvalidInput, "assembly is nil")
	}

	parts := make(map[string]bool, len(a.Parts))
	for _, p := range a.Parts {
		if err := errors.ValidateName("part", p.Name); err != nil {
			return err
		}
		if parts[p.Name] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate part name %q", p.Name)
		}
		parts[p.Name] = true
	}

	joints := make(map[string]bool, len(a.Joints))
	for _, j := range a.Joints {
		if err := errors.ValidateName("joint", j.Name); err != nil {
			return err
		}
		if joints[j.Name] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate joint name %q", j.Name)
		}
		joints[j.Name] = true

		if err := validateJointParts(j, parts); err != nil {
			return err
		}
	}
	return nil
}

func validateJointParts(j Joint, parts map[string]bool) error {
	ref := func(role, name string) error {
		if name == "" {
			return errors.New(errors.ErrCodeInvalidInput, "joint %q: %s is empty", j.Name, role)
		}
		if !parts[name] {
			return errors.New(errors.ErrCodeInvalidInput, "joint %q: %s references unknown part %q", j.Name, role, name)
		}
		return nil
	}

	if err := ref("part1", j.Part1); err != nil {
		return err
	}
	if j.Kind == KindGrounded {
		return nil
	}
	if err := ref("part2", j.Part2); err != nil {
		return err
	}
	if j.Part1 == j.Part2 {
		return errors.New(errors.ErrCodeInvalidInput, "joint %q connects part %q to itself", j.Name, j.Part1)
	}
	return nil
}

// String implements fmt.Stringer for log output.
func (a *Assembly) String() string {
	return fmt.Sprintf("%s (%d parts, %d joints)", a.Name, len(a.Parts), len(a.Joints))
}
