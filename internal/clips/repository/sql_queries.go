package repository

const (
	createJobsTableQuery = `CREATE TABLE IF NOT EXISTS jobs (
		job_id        TEXT PRIMARY KEY,
		status        TEXT NOT NULL,
		source_path   TEXT NOT NULL,
		source_url    TEXT NOT NULL,
		file_name     TEXT NOT NULL,
		progress      INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		metadata      TEXT NOT NULL DEFAULT '',
		settings      TEXT NOT NULL DEFAULT '',
		clips         TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMP NOT NULL,
		updated_at    TIMESTAMP NOT NULL
	)`

	createJobQuery = `INSERT INTO jobs (job_id, status, source_path, source_url, file_name,
		progress, error_message, metadata, settings, clips, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	getJobByIDQuery = `SELECT job_id, status, source_path, source_url, file_name,
		progress, error_message, metadata, settings, clips, created_at, updated_at
		FROM jobs WHERE job_id = ?`

	beginProcessingQuery = `UPDATE jobs SET status = ?, settings = ?, updated_at = ?
		WHERE job_id = ? AND status = ?`

	updateProgressQuery = `UPDATE jobs SET status = ?, progress = MAX(progress, ?), updated_at = ?
		WHERE job_id = ?`

	completeJobQuery = `UPDATE jobs SET status = ?, progress = 100, clips = ?, updated_at = ?
		WHERE job_id = ?`

	failJobQuery = `UPDATE jobs SET status = ?, error_message = ?, updated_at = ?
		WHERE job_id = ?`

	failInterruptedJobsQuery = `UPDATE jobs SET status = ?, error_message = ?, updated_at = ?
		WHERE status NOT IN (?, ?, ?)`

	evictExpiredJobsQuery = `DELETE FROM jobs WHERE status IN (?, ?) AND updated_at < ?`
)
