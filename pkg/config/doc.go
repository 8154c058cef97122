/*
Package config manages configuration parsing and validation for contentxfer.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   YAML    | |   HCL   | |   JSON    |
	| Parser    | | Parser  | | Parser    |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Locates the database and the settings store
- Tunes transfers (buffer size, partial output policy)
- Restricts which files can be imported (open filters)

🔄 Flow:
1. Reads configuration from file, or uses Default when none exists
2. Picks a parser from the file extension
3. Validate fills in defaults and rejects unknown values

🔍 Example:

	cfg, err := config.LoadDefault(ctx)
	if err != nil {
		return err
	}

	conn, err := db.Open(ctx, cfg.Database)

An HCL file can reference the home and config_dir variables:

	database       = "${config_dir}/values.db"
	settings_store = "yaml"
	settings_file  = "${home}/.contentxfer.yaml"
	open_filters   = ["*.md", "notes/*.txt"]
*/
package config
