package tasks

import "context"

// Item is one entry of the main menu.
type Item struct {
	Title string
	Run   func(s *Session, ctx context.Context) error
}

// Menu lists the operations in the order they are offered.
func Menu() []Item {
	return []Item{
		{"JavaScript: Build new cordova.*.js", (*Session).BuildJS},
		{"Android: Build cordova.js/jar", (*Session).BuildAndroid},
		{"Android: Create new project", (*Session).CreateAndroidProject},
		{"Android: Create or update mobile-spec project", (*Session).MobileSpec},
		{"Android: Build project", (*Session).BuildProject},
		{"Android: Run project on device or emulator", (*Session).RunProject},
		{"Android: Update project(s) to latest cordova.js/jar", (*Session).UpdateProjects},
		{"Android: Modify project to use an older version of cordova.js/jar", (*Session).UseOldVersion},
		{"Android: Delete project", (*Session).DeleteAndroidProject},
		{"Web: Create or Update Android project", (*Session).WebToAndroid},
		{"Web: Delete project", (*Session).DeleteWebProject},
		{"Configure: Select repositories to download from Apache git", (*Session).SelectRepositories},
		{"Configure: Download repositories from Apache git", (*Session).DownloadRepositories},
		{"Watch: Auto-build on source changes", (*Session).Watch},
		{"Exit", func(*Session, context.Context) error { return ErrExit }},
	}
}

// Titles returns the menu entries' titles.
func Titles(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}
