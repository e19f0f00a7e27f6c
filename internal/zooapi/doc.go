// Package zooapi implements the zoo REST API that keeper talks to.
//
// It backs local development and the client's end-to-end tests: a chi
// router over a SQLite store, seeded from YAML on first start.
//
//	GET    /animals                 filter: species_name zoo_id minAge maxAge gender
//	                                sort:   sort_by sort_order
//	POST   /animals                 201 with the created animal
//	PUT    /animals/{id}            200 with the updated animal, 404 if missing
//	DELETE /animals/{id}            204, 404 if missing
//	GET    /species                 species names
//	GET    /species/{name}          food and habitat, 404 if missing
//	GET    /zoos                    id and name pairs
//	GET    /zoos/{id}               name and location, 404 if missing
//	GET    /zoos/{id}/employees     roster, 404 if the zoo is missing
//	GET    /health
//	GET    /metrics                 Prometheus exposition
//
// Error responses carry {"message": "..."} and, for validation failures,
// a "fields" map keyed by the offending field.
//
// Configuration comes from KEEPER_API_ADDR, KEEPER_DB_PATH,
// KEEPER_SEED_FILE and KEEPER_LOG_LEVEL.
package zooapi
