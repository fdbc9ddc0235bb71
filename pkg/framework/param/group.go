package param

// RootGroupID is the reserved id of the root of the group forest. The root
// is implicit: it has no name and is its own parent.
const RootGroupID int32 = 0

// Group is a node in the parameter hierarchy. Hosts render groups as
// folders (VST3 calls them units).
type Group struct {
	ID       int32
	Name     string
	ParentID int32
}

// GroupTable holds the group forest in a stable order: the implicit root
// first, then flat groups, then nested groups, exactly as the generator
// assigns their ids.
type GroupTable struct {
	groups []Group
}

// NewGroupTable builds a table from explicit groups. The root is added
// automatically and must not be passed in.
func NewGroupTable(groups ...Group) *GroupTable {
	t := &GroupTable{groups: make([]Group, 0, len(groups)+1)}
	t.groups = append(t.groups, Group{ID: RootGroupID, Name: "Root", ParentID: RootGroupID})
	t.groups = append(t.groups, groups...)
	return t
}

// Count returns the number of groups including the root.
func (t *GroupTable) Count() int { return len(t.groups) }

// ByIndex returns the group at the stable traversal position i.
func (t *GroupTable) ByIndex(i int) (Group, bool) {
	if i < 0 || i >= len(t.groups) {
		return Group{}, false
	}
	return t.groups[i], true
}

// ByID looks a group up by id.
func (t *GroupTable) ByID(id int32) (Group, bool) {
	for _, g := range t.groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

// Path returns the names from the outermost ancestor down to the group
// with the given id, excluding the root. Used to build serialization
// paths.
func (t *GroupTable) Path(id int32) []string {
	var names []string
	for id != RootGroupID {
		g, ok := t.ByID(id)
		if !ok {
			break
		}
		names = append([]string{g.Name}, names...)
		id = g.ParentID
	}
	return names
}
