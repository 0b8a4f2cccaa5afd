package sqlinline

const QInsertUsageEvent = `--sql f58b4b9a-6015-4618-a53e-be730d6859cf
insert into usage_events(id, business_id, job_id, event_type, success, latency_ms, country, properties, created_at)
values (
  gen_random_uuid(),
  $1::uuid,
  nullif($2::text, '')::uuid,
  $3::text,
  $4::boolean,
  $5::int,
  nullif($6::text, ''),
  coalesce($7::jsonb, '{}'::jsonb),
  now()
);
`

const QUsageSummary = `--sql 4e87e851-c9af-489b-bf90-6fc0f8230d10
select
  total_events,
  images_generated,
  captions_generated,
  posts_published,
  events_last24,
  failures_last24
from vw_usage_summary;
`
