package update

import "xpdash/internal/views"

const helpMarkdown = `# xpdash

Complete tasks, earn XP, level up.

## Navigation

- **1** today, **2** recurring, **3** history
- **j/k** move, **space** toggle, **?** help, **q** quit

## Tasks

- **a** add (modifiers: ` + "`xp:15 due:09:30 cat:Easy`" + `)
- **e** edit the selected task
- **d** delete (undo with **u** within the grace window)

## Command palette (/)

- ` + "`add <text> [xp:n] [due:HH:MM] [cat:name]`" + `
- ` + "`goal <n>`" + ` set the daily XP goal (0 clears)
- ` + "`date <YYYY-MM-DD|today>`" + ` switch day
- ` + "`find <text>`" + `, ` + "`sort <mode>`" + `, ` + "`filter <all|done|todo>`" + `
- ` + "`recur add <text> xp:n daily|weekly:Mon,Wed [due:HH:MM]`" + `
- ` + "`recur edit <id> <text> xp:n daily|weekly:Mon,Wed [due:HH:MM]`" + `
- ` + "`recur list`" + `, ` + "`recur delete <id>`" + `
- ` + "`cat list`" + `, ` + "`cat set <name> <xp|->`" + `, ` + "`cat delete <name>`" + `
`

func (m Model) renderHelp() string {
	return views.RenderMarkdown(helpMarkdown)
}
