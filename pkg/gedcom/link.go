package gedcom

import "slices"

// Link resolves identifier references into relationship lists.
//
// Derived fields on every [Individual] and [Family] are rebuilt from the
// captured source fields, so calling Link again on the same document yields
// the same result. Unresolvable references are dropped from derived lists and
// reported once as diagnostics.
//
// Rules:
//   - Parents are the husband then the wife of the child-of family, when set
//     and resolvable. An individual without a FAMC line uses the first family
//     listing it under CHIL.
//   - Spouse families are the FAMS references followed by any family naming the
//     individual as husband or wife.
//   - A spouse goes to ExSpouses when the shared family has ended, to Spouses
//     otherwise. The last shared family decides, so the two lists never hold
//     the same person.
//   - Children are the union of all spouse families' children, deduplicated.
//   - A child whose father (mother) relation for a family is "step" becomes a
//     step child of that family's husband (wife). Relations captured under the
//     individual's FAMC and under the family's CHIL line are merged first.
func Link(doc *Document) {
	report := !doc.linked
	warn := func(reason Reason, format string, args ...any) {
		if report {
			doc.warn(0, reason, format, args...)
		}
	}

	childIndex := make(map[string]string)    // child id -> first family listing it
	spouseIndex := make(map[string][]string) // spouse id -> families naming it

	for _, f := range doc.Families() {
		f.StepRelations = nil
		f.HusbandRef, f.WifeRef, f.ChildRefs = nil, nil, nil
		f.Status = StatusActive
		if f.Ended() {
			f.Status = StatusEnded
		}

		f.HusbandRef = resolveRole(doc, f, f.Husband, warn)
		f.WifeRef = resolveRole(doc, f, f.Wife, warn)
		for _, role := range []string{f.Husband, f.Wife} {
			if role != "" && !slices.Contains(spouseIndex[role], f.ID) {
				spouseIndex[role] = append(spouseIndex[role], f.ID)
			}
		}
		for _, cid := range f.Children {
			c, ok := doc.individuals[cid]
			if !ok {
				warn(ReasonUnresolvedPerson, "family %s: child %s", f.ID, cid)
				continue
			}
			f.ChildRefs = append(f.ChildRefs, c)
			if _, seen := childIndex[cid]; !seen {
				childIndex[cid] = f.ID
			}
		}
	}

	for _, i := range doc.Individuals() {
		resetDerived(i)

		famc := i.ChildOf
		if famc == "" {
			famc = childIndex[i.ID]
		}
		if famc != "" {
			if f, ok := doc.families[famc]; ok {
				i.ChildFamily = f
				for _, p := range []*Individual{f.HusbandRef, f.WifeRef} {
					if p != nil && p != i {
						i.Parents = appendUnique(i.Parents, p)
					}
				}
			} else {
				warn(ReasonUnresolvedFamily, "individual %s: child of %s", i.ID, famc)
			}
		}

		for _, fid := range spouseFamilies(i, spouseIndex[i.ID]) {
			f, ok := doc.families[fid]
			if !ok {
				warn(ReasonUnresolvedFamily, "individual %s: spouse in %s", i.ID, fid)
				continue
			}
			i.Families = append(i.Families, f)

			if sp, ok := doc.individuals[spouseOf(f, i.ID)]; ok && sp != i {
				i.Spouses = removeByID(i.Spouses, sp.ID)
				i.ExSpouses = removeByID(i.ExSpouses, sp.ID)
				if f.Status == StatusEnded {
					i.ExSpouses = append(i.ExSpouses, sp)
				} else {
					i.Spouses = append(i.Spouses, sp)
				}
			}
			for _, c := range f.ChildRefs {
				if c != i {
					i.Children = appendUnique(i.Children, c)
				}
			}
		}
	}

	for _, f := range doc.Families() {
		for _, c := range f.ChildRefs {
			rel := c.Relation[f.ID].merge(f.childRelation[c.ID])
			if rel.FatherIsStep() && f.HusbandRef != nil {
				linkStep(f, f.HusbandRef, c)
			}
			if rel.MotherIsStep() && f.WifeRef != nil {
				linkStep(f, f.WifeRef, c)
			}
		}
	}

	doc.linked = true
}

func resetDerived(i *Individual) {
	i.Parents = nil
	i.Children = nil
	i.Spouses = nil
	i.ExSpouses = nil
	i.StepChildren = nil
	i.StepRelations = nil
	i.ChildFamily = nil
	i.Families = nil
}

func resolveRole(doc *Document, f *Family, id string, warn func(Reason, string, ...any)) *Individual {
	if id == "" {
		return nil
	}
	i, ok := doc.individuals[id]
	if !ok {
		warn(ReasonUnresolvedPerson, "family %s: spouse %s", f.ID, id)
		return nil
	}
	return i
}

// spouseFamilies lists FAMS references first, then role-derived families.
func spouseFamilies(i *Individual, byRole []string) []string {
	out := slices.Clone(i.SpouseIn)
	for _, fid := range byRole {
		if !slices.Contains(out, fid) {
			out = append(out, fid)
		}
	}
	return out
}

// spouseOf returns the partner of id within f. When id fills neither role
// (a FAMS line the family does not mirror) the only filled role is the
// partner; with both roles filled the pairing is ambiguous and "" is returned.
func spouseOf(f *Family, id string) string {
	if f.HasSpouse(id) {
		return f.Spouse(id)
	}
	switch {
	case f.Husband == "":
		return f.Wife
	case f.Wife == "":
		return f.Husband
	}
	return ""
}

func linkStep(f *Family, parent, child *Individual) {
	rel := StepRelation{ParentID: parent.ID, ChildID: child.ID, FamilyID: f.ID}
	f.StepRelations = appendStep(f.StepRelations, rel)
	parent.StepChildren = appendUnique(parent.StepChildren, child)
	parent.StepRelations = appendStep(parent.StepRelations, rel)
	child.StepRelations = appendStep(child.StepRelations, rel)
}

func appendStep(list []StepRelation, rel StepRelation) []StepRelation {
	for _, r := range list {
		if r.ParentID == rel.ParentID && r.ChildID == rel.ChildID {
			return list
		}
	}
	return append(list, rel)
}

func appendUnique(list []*Individual, i *Individual) []*Individual {
	for _, x := range list {
		if x.ID == i.ID {
			return list
		}
	}
	return append(list, i)
}

func removeByID(list []*Individual, id string) []*Individual {
	return slices.DeleteFunc(list, func(x *Individual) bool { return x.ID == id })
}
