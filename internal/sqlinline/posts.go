package sqlinline

const QInsertSocialPost = `--sql abdd2786-6b5f-4694-bdd8-6114d9875c12
insert into social_posts(
  id,
  business_id,
  asset_id,
  caption,
  platforms,
  scheduled_at,
  status,
  created_at,
  updated_at
) values (
  gen_random_uuid(),
  $1::uuid,
  nullif($2::text, '')::uuid,
  $3::text,
  coalesce($4::jsonb, '[]'::jsonb),
  $5::timestamptz,
  $6::text,
  now(),
  now()
) returning id, created_at, updated_at;
`

const QSelectSocialPostByID = `--sql a19fa805-ee43-4dff-881b-403b6292cae2
select
  id,
  business_id,
  coalesce(asset_id::text, ''),
  caption,
  platforms,
  scheduled_at,
  status,
  coalesce(external_id, ''),
  coalesce(error_message, ''),
  created_at,
  updated_at
from social_posts
where id = $1::uuid
limit 1;
`

const QListSocialPostsByBusiness = `--sql 9cdc92d5-f8c8-46f2-b164-8091a350050a
select
  id,
  business_id,
  coalesce(asset_id::text, ''),
  caption,
  platforms,
  scheduled_at,
  status,
  coalesce(external_id, ''),
  coalesce(error_message, ''),
  created_at,
  updated_at
from social_posts
where business_id = $1::uuid
order by created_at desc;
`

// QDeleteCancelableSocialPost removes a post only while it has not entered
// publishing; the repo distinguishes missing from non-cancelable.
const QDeleteCancelableSocialPost = `--sql 292cb836-11be-4aca-8260-2d81824e3db9
delete from social_posts
where id = $1::uuid
  and status in ('draft', 'scheduled')
returning id;
`

const QMarkSocialPostPublished = `--sql a791000e-424e-4f53-bea4-bf8c4e035c01
update social_posts
set
  status        = 'published',
  external_id   = nullif($2::text, ''),
  error_message = null,
  updated_at    = now()
where id = $1::uuid;
`

const QMarkSocialPostFailed = `--sql 558e2984-8877-4be8-b7aa-ee69e5a8a12c
update social_posts
set
  status        = 'failed',
  error_message = $2::text,
  updated_at    = now()
where id = $1::uuid;
`
