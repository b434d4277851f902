package yamldecl // want package:`declarations\(main\)`

import "fsys"

//autobox:entrypoint
func main() { // want `Side effect: reads_file\("/var/log/app/current"\)` `Side effect: reads_file\("/etc/hosts"\)`
	dir := "/var/log"
	fsys.Append(&dir, "/app")
	fsys.Read(dir, "current")
	fsys.Read("/etc", "hosts")
}
