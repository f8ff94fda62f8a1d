package sandbox

// Host script sources. Anchored patches address these texts line by line,
// so the layout is part of the host's observable shape.
const (
	compendiumContextMenu = `func _contextMenu(this any, args ...any) (any, error) {
	return host.Invoke(this, "newContextMenu", args[0], ".directory-item", []any{
		"Import Entry",
		"Edit Entry",
		"Delete Entry",
	})
}`

	compendiumActivateListeners = `func activateListeners(this any, args ...any) (any, error) {
	html := args[0]
	if _, err := host.Invoke(this, "_onSearchFilter", html); err != nil {
		return nil, err
	}
	if _, err := host.Invoke(this, "_contextMenu", html); err != nil {
		return nil, err
	}
	return nil, nil
}`

	moduleActivateListeners = `func activateListeners(this any, args ...any) (any, error) {
	_, err := host.Invoke(this, "_onSearchFilter", args[0])
	return nil, err
}`

	applicationRender = `func render(this any, args ...any) (any, error) {
	return host.Invoke(this, "activateListeners", args...)
}`

	compendiumLoad = `async func load(this any, args ...any) (any, error) {
	return host.Get(this, "entries")
}`
)
