package resume

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// Clone 返回不与原值共享切片和 map 的深拷贝。
func (d Document) Clone() Document {
	out := d
	out.Basic.Icons = cloneMap(d.Basic.Icons)
	out.Basic.CustomFields = cloneSlice(d.Basic.CustomFields)
	out.Education = cloneSlice(d.Education)
	out.Experience = cloneSlice(d.Experience)
	out.Projects = cloneSlice(d.Projects)
	out.MenuSections = cloneSlice(d.MenuSections)
	if d.CustomData != nil {
		out.CustomData = make(map[string][]CustomItem, len(d.CustomData))
		for k, items := range d.CustomData {
			out.CustomData[k] = cloneSlice(items)
		}
	}
	if d.DraggingProjectID != nil {
		id := *d.DraggingProjectID
		out.DraggingProjectID = &id
	}
	return out
}
